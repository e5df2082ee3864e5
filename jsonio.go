package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================================
// JSON 輸出
// ============================================================================

// EncodeJSON 編碼為 JSON
// 中文與 <>& 原樣輸出；pretty 時縮排 2 格並以換行結尾
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("JSON 編碼失敗: %w", err)
	}

	out := buf.Bytes()
	if !pretty {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	return EncodeJSON(v, false)
}

// WriteFileAtomic 先寫入同目錄暫存檔再改名，失敗時不留下半成品
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("建立暫存檔失敗: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("寫入檔案失敗: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("寫入檔案失敗: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("設定檔案權限失敗: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("寫入檔案失敗: %w", err)
	}
	return nil
}

// ReadInputFile 讀取輸入檔，找不到檔案時回傳輸入錯誤
func ReadInputFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewInputError(fmt.Sprintf("找不到輸入檔: %s", path), err)
		}
		return nil, NewInputError(fmt.Sprintf("讀取檔案失敗: %s", path), err)
	}
	return data, nil
}

// DerivedPath 由輸入檔名推導輸出檔名: <dir>/<stem><suffix><ext>
// ext 為空時沿用輸入副檔名
func DerivedPath(input, suffix, ext string) string {
	base := filepath.Base(input)
	inputExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, inputExt)
	if ext == "" {
		ext = inputExt
	}
	return filepath.Join(filepath.Dir(input), stem+suffix+ext)
}

package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ============================================================================
// 輸入文件解碼
// ============================================================================

// EncodingAuto 自動偵測：合法 UTF-8 直接使用，否則以 GB18030 解碼
const EncodingAuto = "auto"

// Source 已解碼的 Markdown 文件
type Source struct {
	Lines       []string       // 不含 front matter 的內容行
	LineOffset  int            // front matter 佔用的行數
	FrontMatter map[string]any // 無 front matter 時為 nil
	Encoding    string         // 實際使用的編碼
	Warnings    []string
}

// DecodeText 依指定編碼將內容轉為 UTF-8
func DecodeText(content []byte, name string) (string, string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "utf-8"
	}

	var enc encoding.Encoding
	switch name {
	case EncodingAuto:
		if utf8.Valid(content) {
			return trimBOM(string(content)), "utf-8", nil
		}
		enc, name = simplifiedchinese.GB18030, "gb18030"
	case "utf-8", "utf8":
		if !utf8.Valid(content) {
			return "", "", NewInputError("輸入不是合法的 UTF-8，請以 -encoding 指定編碼", nil)
		}
		return trimBOM(string(content)), "utf-8", nil
	default:
		var err error
		enc, err = htmlindex.Get(name)
		if err != nil {
			return "", "", NewUsageError(fmt.Sprintf("不支援的編碼 %q", name), err)
		}
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), content)
	if err != nil {
		return "", "", NewInputError(fmt.Sprintf("以 %s 解碼失敗", name), err)
	}
	return trimBOM(string(decoded)), name, nil
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}

// SplitLines 切行 (\r\n、\r、\n 皆視為換行)
func SplitLines(text string) []string {
	text = normalizeNewlines(text)
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// LoadSource 解碼內容並拆出 front matter
func LoadSource(content []byte, encodingName string) (*Source, error) {
	text, used, err := DecodeText(content, encodingName)
	if err != nil {
		return nil, err
	}

	src := &Source{Encoding: used}
	text = normalizeNewlines(text)

	meta, body, ok, err := splitFrontMatter(text)
	switch {
	case err != nil:
		src.Warnings = append(src.Warnings, "front matter 解析失敗，視為一般內容: "+err.Error())
	case ok:
		src.FrontMatter = meta
		src.LineOffset = strings.Count(text[:len(text)-len(body)], "\n")
		text = body
	}

	src.Lines = SplitLines(text)
	return src, nil
}

// splitFrontMatter 解析開頭的 YAML/TOML/JSON front matter
// 只有在剩餘內容為原文尾段時才拆分，以便換算行號
func splitFrontMatter(text string) (map[string]any, string, bool, error) {
	trimmed := strings.TrimLeft(text, " \t\n")
	if !hasAnyPrefix(trimmed, "---", "+++", ";;;", "{") {
		return nil, text, false, nil
	}

	var meta map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return nil, text, false, err
	}

	body := string(rest)
	if len(meta) == 0 || len(body) >= len(text) || !strings.HasSuffix(text, body) {
		return nil, text, false, nil
	}
	return normalizeYAMLMap(meta), body, true, nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// normalizeYAMLMap yaml.v2 的巢狀 map 是 map[interface{}]interface{}，轉成 JSON 可輸出的型別
func normalizeYAMLMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeYAMLValue(v)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAMLValue(val)
		}
		return m
	case map[string]any:
		return normalizeYAMLMap(t)
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAMLValue(val)
		}
		return out
	default:
		return v
	}
}

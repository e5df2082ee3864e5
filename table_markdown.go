// Package parser 手術排程 Markdown 表格解析器
// 將 OCR / 匯出的 Markdown 排程表轉為標準化 JSON 手術紀錄
package parser

import (
	"regexp"
	"strings"
)

// ============================================================================
// Markdown 表格列處理
// ============================================================================

var alignCellRe = regexp.MustCompile(`^:?-{3,}:?$`)

// IsTableLine 判斷是否為 Markdown 表格列
// 去除前後空白後須以 | 開頭與結尾，且中間至少還有一個 |
func IsTableLine(line string) bool {
	s := strings.TrimSpace(line)
	if len(s) < 3 || !strings.HasPrefix(s, "|") || !strings.HasSuffix(s, "|") {
		return false
	}
	return strings.Contains(s[1:len(s)-1], "|")
}

// SplitRow 將表格列拆成儲存格 (已去除前後空白)
// 不處理跳脫的 \|，儲存格內的 | 一律視為分隔符
func SplitRow(line string) []string {
	raw := strings.TrimSpace(line)
	raw = strings.TrimPrefix(raw, "|")
	raw = strings.TrimSuffix(raw, "|")

	parts := strings.Split(raw, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// IsAlignmentRow 判斷是否為對齊列 (---, :---:, -----:)
// 每格至少三個 -，:--: 不算
func IsAlignmentRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !alignCellRe.MatchString(strings.TrimSpace(c)) {
			return false
		}
	}
	return true
}

// NormalizeRow 依表頭欄數修正資料列
// 欄位不足補空字串；欄位過多時，多出的儲存格以 | 併入最後一欄
func NormalizeRow(cells []string, headerLen int) []string {
	switch {
	case len(cells) == headerLen:
		return cells
	case len(cells) < headerLen:
		fixed := make([]string, headerLen)
		copy(fixed, cells)
		return fixed
	case headerLen <= 0:
		return cells
	}

	fixed := make([]string, 0, headerLen)
	fixed = append(fixed, cells[:headerLen-1]...)
	fixed = append(fixed, strings.TrimSpace(strings.Join(cells[headerLen-1:], "|")))
	return fixed
}

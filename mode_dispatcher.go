package parser

import (
	"fmt"
	"strings"
)

// TableMode 表格擷取策略
type TableMode string

const (
	TableModeSingle TableMode = "single" // 只解析第一個手術表
	TableModeMulti  TableMode = "multi"  // 解析所有相同表頭的手術表並串接
)

// ModeInfo 擷取策略資訊
type ModeInfo struct {
	Code        TableMode `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// GetSupportedModes 取得支援的擷取策略
func GetSupportedModes() []ModeInfo {
	return []ModeInfo{
		{
			Code:        TableModeSingle,
			Name:        "單一表格",
			Description: "只解析第一個含 手术间/手术名称 表頭的表格，表頭與首筆資料間的空行會略過",
		},
		{
			Code:        TableModeMulti,
			Name:        "多表格",
			Description: "解析文件中所有相同表頭的表格，依序串接並以實際筆數更新 total_count",
		},
	}
}

// ParseTableMode 解析策略名稱
func ParseTableMode(s string) (TableMode, error) {
	switch TableMode(strings.ToLower(strings.TrimSpace(s))) {
	case TableModeSingle:
		return TableModeSingle, nil
	case TableModeMulti:
		return TableModeMulti, nil
	default:
		return "", NewUsageError(fmt.Sprintf("不支援的擷取策略 %q (single / multi)", s), nil)
	}
}

// GetModeName 取得策略中文名稱
func GetModeName(mode TableMode) string {
	for _, info := range GetSupportedModes() {
		if info.Code == mode {
			return info.Name
		}
	}
	return string(mode)
}

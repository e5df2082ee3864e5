package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// ============================================================================
// 表頭欄位對應 (標準欄位 -> 可接受的表頭名稱)
// ============================================================================

// Field 標準欄位名稱 (即輸出 JSON 的 key)
type Field string

const (
	FieldRoom                Field = "room"
	FieldDepartment          Field = "department"
	FieldNumber              Field = "number"
	FieldInpatientNo         Field = "inpatient_no"
	FieldName                Field = "name"
	FieldGender              Field = "gender"
	FieldAge                 Field = "age"
	FieldSurgeryName         Field = "surgery_name"
	FieldSurgeon             Field = "surgeon"
	FieldAnesthesiaMethod    Field = "anesthesia_method"
	FieldAnesthesiaMain      Field = "anesthesia_main"
	FieldAnesthesiaAssistant Field = "anesthesia_assistant"
	FieldRemark              Field = "remark"
)

// AliasTable 表頭別名設定
type AliasTable struct {
	// Fields 標準欄位 -> 依優先順序排列的表頭名稱
	Fields map[Field][]string `json:"fields"`
	// Assistants 醫助欄位，依序收集
	Assistants []string `json:"assistants"`
	// Signature 表頭必須同時包含的欄位，用來辨識手術表
	Signature []string `json:"signature"`
}

// DefaultAliases 預設表頭別名
func DefaultAliases() AliasTable {
	return AliasTable{
		Fields: map[Field][]string{
			FieldRoom:                {"手术间"},
			FieldDepartment:          {"科室"},
			FieldNumber:              {"床号", "号"}, // records2 用 床号；records 用 号
			FieldInpatientNo:         {"住院号"},
			FieldName:                {"姓名"},
			FieldGender:              {"性别"},
			FieldAge:                 {"年龄"},
			FieldSurgeryName:         {"手术名称"},
			FieldSurgeon:             {"主刀医生"},
			FieldAnesthesiaMethod:    {"麻醉方法"},
			FieldAnesthesiaMain:      {"主麻"},
			FieldAnesthesiaAssistant: {"副麻"},
			FieldRemark:              {"备注"},
		},
		Assistants: []string{"医助1", "医助2", "医助3", "医助4"},
		Signature:  []string{"手术间", "手术名称"},
	}
}

// LoadAliasTable 從 JSON 讀取別名設定
// 未提供的部分沿用預設值
func LoadAliasTable(r io.Reader) (AliasTable, error) {
	var custom AliasTable
	if err := json.NewDecoder(r).Decode(&custom); err != nil {
		return AliasTable{}, NewInputError("別名設定解析失敗", err)
	}

	table := DefaultAliases()
	for field, names := range custom.Fields {
		table.Fields[field] = names
	}
	if len(custom.Assistants) > 0 {
		table.Assistants = custom.Assistants
	}
	if len(custom.Signature) > 0 {
		table.Signature = custom.Signature
	}

	if err := table.Validate(); err != nil {
		return AliasTable{}, err
	}
	return table, nil
}

// Validate 檢查別名設定
func (t AliasTable) Validate() error {
	if len(t.Signature) == 0 {
		return NewUsageError("表頭識別欄位不可為空", nil)
	}
	for field, names := range t.Fields {
		if len(names) == 0 {
			return NewUsageError(fmt.Sprintf("欄位 %s 沒有任何表頭名稱", field), nil)
		}
	}
	return nil
}

// MatchesHeader 判斷表頭是否包含所有識別欄位
func (t AliasTable) MatchesHeader(cells []string) bool {
	for _, marker := range t.Signature {
		if !slices.Contains(cells, marker) {
			return false
		}
	}
	return true
}

// HeaderIndex 表頭名稱 -> 欄位索引
type HeaderIndex struct {
	columns map[string]int
	width   int
}

// NewHeaderIndex 建立欄位索引
// 表頭名稱重複時以最後一欄為準
func NewHeaderIndex(header []string) HeaderIndex {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	return HeaderIndex{columns: columns, width: len(header)}
}

// Width 表頭欄數
func (h HeaderIndex) Width() int {
	return h.width
}

// Lookup 依優先順序取第一個存在的欄位值 (已清理)
// 所有名稱都不存在時回傳空字串
func (h HeaderIndex) Lookup(row []string, names ...string) string {
	for _, name := range names {
		idx, ok := h.columns[name]
		if !ok {
			continue
		}
		if idx >= 0 && idx < len(row) {
			return CleanCell(row[idx])
		}
	}
	return ""
}

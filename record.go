package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ============================================================================
// 標準化手術紀錄
// ============================================================================

// SurgeryRecord 單筆手術紀錄
// 空字串一律轉為 null，assistants 至少為 []
type SurgeryRecord struct {
	Room                *string  `json:"room"`
	Department          *string  `json:"department"`
	Number              *string  `json:"number"`
	InpatientNo         *string  `json:"inpatient_no"`
	Name                *string  `json:"name"`
	Gender              *string  `json:"gender"`
	Age                 *int     `json:"age"`
	SurgeryName         *string  `json:"surgery_name"`
	Surgeon             *string  `json:"surgeon"`
	Assistants          []string `json:"assistants"`
	AnesthesiaMethod    *string  `json:"anesthesia_method"`
	AnesthesiaMain      *string  `json:"anesthesia_main"`
	AnesthesiaAssistant *string  `json:"anesthesia_assistant"`
	Remark              *string  `json:"remark"`
	Row                 int      `json:"_row"`                   // 來源行號 (1 起算)
	OperateDate         string   `json:"operate_date,omitempty"` // 後處理才會填入
}

var (
	brTagRe  = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	digitsRe = regexp.MustCompile(`[0-9]+`)
)

// CleanCell 清理儲存格內容
// <br> 換成空白，連續空白合併為一個，去除前後空白
func CleanCell(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	s = brTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CoerceInt 取出第一段連續數字轉為整數 (年齡、台數)
// 全形數字先轉半形；沒有數字或超出範圍回傳 nil
func CoerceInt(text string) *int {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil
	}
	m := digitsRe.FindString(width.Fold.String(t))
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// nullable 空字串轉 nil
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// BuildRecord 由已正規化的資料列建立手術紀錄
func BuildRecord(row []string, idx HeaderIndex, aliases AliasTable, lineNo int) SurgeryRecord {
	get := func(f Field) *string {
		return nullable(idx.Lookup(row, aliases.Fields[f]...))
	}

	assistants := make([]string, 0, len(aliases.Assistants))
	for _, col := range aliases.Assistants {
		if a := idx.Lookup(row, col); a != "" {
			assistants = append(assistants, a)
		}
	}

	return SurgeryRecord{
		Room:                get(FieldRoom),
		Department:          get(FieldDepartment),
		Number:              get(FieldNumber),
		InpatientNo:         get(FieldInpatientNo),
		Name:                get(FieldName),
		Gender:              get(FieldGender),
		Age:                 CoerceInt(idx.Lookup(row, aliases.Fields[FieldAge]...)),
		SurgeryName:         get(FieldSurgeryName),
		Surgeon:             get(FieldSurgeon),
		Assistants:          assistants,
		AnesthesiaMethod:    get(FieldAnesthesiaMethod),
		AnesthesiaMain:      get(FieldAnesthesiaMain),
		AnesthesiaAssistant: get(FieldAnesthesiaAssistant),
		Remark:              get(FieldRemark),
		Row:                 lineNo,
	}
}

package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// ============================================================================
// 重新載入的 JSON 文件 (保留欄位順序與未知欄位)
// ============================================================================

// Payload 已存檔的排程 JSON
// surgeries 以原始 JSON 保存，非物件元素原樣保留
type Payload struct {
	root      *orderedObject
	surgeries []json.RawMessage
}

// LoadPayload 解析排程 JSON
func LoadPayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, NewInputError("JSON 解析失敗", fmt.Errorf("invalid JSON"))
		}
		return nil, shapeError(ErrNotObject)
	}

	root, err := decodeObject(trimmed)
	if err != nil {
		return nil, NewInputError("JSON 解析失敗", err)
	}
	if err := root.literalize(); err != nil {
		return nil, NewInputError("JSON 解析失敗", err)
	}

	raw, ok := root.Get("surgeries")
	if !ok {
		return nil, shapeError(ErrSurgeriesMissing)
	}
	var surgeries []json.RawMessage
	if firstByte(raw) != '[' {
		return nil, shapeError(ErrSurgeriesNotArray)
	}
	if err := json.Unmarshal(raw, &surgeries); err != nil {
		return nil, NewInputError("surgeries 解析失敗", err)
	}

	return &Payload{root: root, surgeries: surgeries}, nil
}

func shapeError(err error) *Error {
	return NewInputError("輸入 JSON 結構錯誤", err)
}

// Len 手術紀錄筆數
func (p *Payload) Len() int {
	return len(p.surgeries)
}

// Surgery 取得第 i 筆原始 JSON
func (p *Payload) Surgery(i int) json.RawMessage {
	return p.surgeries[i]
}

// MarshalJSON 依原欄位順序輸出
func (p *Payload) MarshalJSON() ([]byte, error) {
	surgeries := p.surgeries
	if surgeries == nil {
		surgeries = []json.RawMessage{}
	}
	arr, err := marshalNoEscape(surgeries)
	if err != nil {
		return nil, err
	}
	p.root.Set("surgeries", arr)
	return p.root.MarshalJSON()
}

// AssignDates 為每筆紀錄填入日期欄位
// 已有非空值的紀錄在 overwrite 為 false 時略過；非物件元素一律略過
func (p *Payload) AssignDates(field string, policy DatePolicy, overwrite bool) (AssignStats, error) {
	if field == "" {
		return AssignStats{}, NewUsageError("日期欄位名稱不可為空", nil)
	}

	stats := AssignStats{Total: len(p.surgeries)}
	for i, raw := range p.surgeries {
		if firstByte(raw) != '{' {
			continue
		}
		item, err := decodeObject(raw)
		if err != nil {
			return stats, NewInputError(fmt.Sprintf("第 %d 筆紀錄解析失敗", i+1), err)
		}
		if existing, ok := item.Get(field); ok && !overwrite && isTruthy(existing) {
			continue
		}

		date, capped := policy.DateAt(i)
		item.Set(field, json.RawMessage(strconv.Quote(date.Format(ISODate))))

		encoded, err := item.MarshalJSON()
		if err != nil {
			return stats, err
		}
		p.surgeries[i] = encoded
		stats.Updated++
		stats.Capped = stats.Capped || capped
	}
	return stats, nil
}

var integerRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// isTruthy 判斷 JSON 值是否為「有值」(非 null/false/0/空字串/空陣列/空物件)
func isTruthy(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return len(bytes.TrimSpace(raw)) > 0
	}
	switch s := buf.String(); s {
	case "null", "false", `""`, "[]", "{}":
		return false
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f != 0
		}
		return true
	}
}

// literalJSON 重新編碼 JSON 值，字串中的 \uXXXX 轉為原字元 (物件 key 順序不變)
func literalJSON(raw json.RawMessage) (json.RawMessage, error) {
	switch firstByte(raw) {
	case '{':
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, err
		}
		if err := obj.literalize(); err != nil {
			return nil, err
		}
		return obj.MarshalJSON()
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			v, err := literalJSON(item)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return marshalNoEscape(s)
	default:
		return append(json.RawMessage(nil), bytes.TrimSpace(raw)...), nil
	}
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ----------------------------------------------------------------------------
// orderedObject 保留 key 順序的 JSON 物件
// ----------------------------------------------------------------------------

type member struct {
	key   string
	value json.RawMessage
}

type orderedObject struct {
	members []member
}

func decodeObject(data []byte) (*orderedObject, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	obj := &orderedObject{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		obj.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	return obj, nil
}

// literalize 將所有成員值轉為 literalJSON 形式
func (o *orderedObject) literalize() error {
	for i := range o.members {
		v, err := literalJSON(o.members[i].value)
		if err != nil {
			return err
		}
		o.members[i].value = v
	}
	return nil
}

func (o *orderedObject) Get(key string) (json.RawMessage, bool) {
	for _, m := range o.members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// Set 已存在的 key 原位取代，否則加到最後
func (o *orderedObject) Set(key string, value json.RawMessage) {
	for i := range o.members {
		if o.members[i].key == key {
			o.members[i].value = value
			return
		}
	}
	o.members = append(o.members, member{key: key, value: value})
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================================
// 刪除前段紀錄
// ============================================================================

// TrimStats 刪除結果統計
type TrimStats struct {
	Original  int `json:"original"`
	Remaining int `json:"remaining"`
}

// Trim 刪除前 n 筆紀錄
// updateTotalCount 時，僅在 schedule.total_count 原本是整數才更新
func (p *Payload) Trim(n int, updateTotalCount bool) (TrimStats, error) {
	stats := TrimStats{Original: len(p.surgeries)}
	if n < 0 {
		return stats, NewUsageError("drop-first 必須 >= 0", nil)
	}
	if n > len(p.surgeries) {
		return stats, NewUsageError(fmt.Sprintf("紀錄不足: 只有 %d 筆，無法刪除 %d 筆", len(p.surgeries), n), nil)
	}

	p.surgeries = append([]json.RawMessage{}, p.surgeries[n:]...)
	stats.Remaining = len(p.surgeries)

	if updateTotalCount {
		if err := p.restampTotalCount(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (p *Payload) restampTotalCount() error {
	raw, ok := p.root.Get("schedule")
	if !ok || firstByte(raw) != '{' {
		return nil
	}
	schedule, err := decodeObject(raw)
	if err != nil {
		return NewInputError("schedule 解析失敗", err)
	}
	count, ok := schedule.Get("total_count")
	if !ok || !integerRe.Match(bytes.TrimSpace(count)) {
		return nil
	}

	schedule.Set("total_count", json.RawMessage(strconv.Itoa(len(p.surgeries))))
	encoded, err := schedule.MarshalJSON()
	if err != nil {
		return err
	}
	p.root.Set("schedule", encoded)
	return nil
}

// TotalCount 目前的 schedule.total_count (非整數時 ok 為 false)
func (p *Payload) TotalCount() (int, bool) {
	raw, ok := p.root.Get("schedule")
	if !ok || firstByte(raw) != '{' {
		return 0, false
	}
	schedule, err := decodeObject(raw)
	if err != nil {
		return 0, false
	}
	count, ok := schedule.Get("total_count")
	if !ok || !integerRe.Match(bytes.TrimSpace(count)) {
		return 0, false
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(count)))
	return n, err == nil
}

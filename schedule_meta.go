package parser

import (
	"regexp"
	"strconv"
	"time"
)

// DefaultLookaheadLines 排程公告行的搜尋範圍 (前 N 行)
const DefaultLookaheadLines = 200

// ISODate 日期輸出格式
const ISODate = "2006-01-02"

// 例: 2025年04月01日 星期二 共35台
var announcementRe = regexp.MustCompile(
	`(\d{4})年(\d{2})月(\d{2})日\s*(星期[一二三四五六日天])?\s*(?:共(\d+)台)?`,
)

// ScheduleMetadata 排程公告資訊
type ScheduleMetadata struct {
	DateText   *string `json:"date_text"`
	DateISO    *string `json:"date_iso"`
	Weekday    *string `json:"weekday"`
	TotalCount *int    `json:"total_count"`
}

// ExtractScheduleMetadata 在前 window 行內找第一個排程公告行
// 日期不合法時保留 date_text，date_iso 為 null
func ExtractScheduleMetadata(lines []string, window int) ScheduleMetadata {
	if window <= 0 || window > len(lines) {
		window = len(lines)
	}

	for _, line := range lines[:window] {
		m := announcementRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		dateText := m[1] + "年" + m[2] + "月" + m[3] + "日"
		meta := ScheduleMetadata{
			DateText: &dateText,
			DateISO:  nullable(parseCNDate(m[1], m[2], m[3])),
			Weekday:  nullable(m[4]),
		}
		if m[5] != "" {
			meta.TotalCount = CoerceInt(m[5])
		}
		return meta
	}

	return ScheduleMetadata{}
}

// parseCNDate 年月日轉 ISO 日期，不合法回傳空字串
func parseCNDate(year, month, day string) string {
	y, err1 := strconv.Atoi(year)
	mo, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	t, ok := civilDate(y, mo, d)
	if !ok {
		return ""
	}
	return t.Format(ISODate)
}

// civilDate 檢查年月日是否為合法日期
func civilDate(y, mo, d int) (time.Time, bool) {
	if y < 1 || y > 9999 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	// time.Date 會自動進位 (2月30日 -> 3月2日)，需反向檢查
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

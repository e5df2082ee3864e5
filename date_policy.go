package parser

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// 手術日期 (operate_date) 指派
// ============================================================================

// DefaultDateField 預設日期欄位
const DefaultDateField = "operate_date"

// DatePolicy 依紀錄位置決定手術日期
type DatePolicy interface {
	// DateAt 回傳第 i 筆 (0 起算) 的日期，以及是否被截止日截斷
	DateAt(i int) (time.Time, bool)
}

// AssignStats 指派結果統計
type AssignStats struct {
	Total   int  `json:"total"`
	Updated int  `json:"updated"`
	Capped  bool `json:"capped"`
}

// SequentialPolicy 每 GroupSize 筆遞增一天
type SequentialPolicy struct {
	start     time.Time
	groupSize int
	end       *time.Time
}

// NewSequentialPolicy 建立依序分組策略，end 為 nil 時不設上限
func NewSequentialPolicy(start time.Time, groupSize int, end *time.Time) (*SequentialPolicy, error) {
	if groupSize <= 0 {
		return nil, NewUsageError("group size 必須大於 0", nil)
	}
	p := &SequentialPolicy{start: truncateDay(start), groupSize: groupSize}
	if end != nil {
		e := truncateDay(*end)
		p.end = &e
	}
	return p, nil
}

func (p *SequentialPolicy) DateAt(i int) (time.Time, bool) {
	d := p.start.AddDate(0, 0, i/p.groupSize)
	if p.end != nil && d.After(*p.end) {
		return *p.end, true
	}
	return d, false
}

// RandomPolicy 在 [start, end] 內均勻隨機取日
type RandomPolicy struct {
	start time.Time
	span  int
	rng   *rand.Rand
}

// NewRandomPolicy 建立隨機日期策略
// seed 為 nil 時每次執行結果不同
func NewRandomPolicy(start, end time.Time, seed *int64) (*RandomPolicy, error) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil, NewUsageError(fmt.Sprintf("結束日 %s 早於開始日 %s", end.Format(ISODate), start.Format(ISODate)), nil)
	}

	var src rand.Source
	if seed != nil {
		src = rand.NewPCG(uint64(*seed), 0)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &RandomPolicy{
		start: start,
		span:  int(end.Sub(start).Hours() / 24),
		rng:   rand.New(src),
	}, nil
}

func (p *RandomPolicy) DateAt(int) (time.Time, bool) {
	return p.start.AddDate(0, 0, p.rng.IntN(p.span+1)), false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AssignOperateDates 為擷取結果填入 operate_date
// overwrite 為 false 時略過已有日期的紀錄
func (d *Document) AssignOperateDates(policy DatePolicy, overwrite bool) AssignStats {
	stats := AssignStats{Total: len(d.Surgeries)}
	for i := range d.Surgeries {
		rec := &d.Surgeries[i]
		if !overwrite && rec.OperateDate != "" {
			continue
		}
		date, capped := policy.DateAt(i)
		rec.OperateDate = date.Format(ISODate)
		stats.Updated++
		stats.Capped = stats.Capped || capped
	}
	return stats
}

var shortDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})$`)

// ParseDate 解析日期參數
// 接受 YYYY-MM-DD 或 M.D (年份使用 defaultYear)
func ParseDate(value string, defaultYear int) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(ISODate, value); err == nil {
		return t, nil
	}

	if m := shortDateRe.FindStringSubmatch(value); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if t, ok := civilDate(defaultYear, month, day); ok {
			return t, nil
		}
	}

	return time.Time{}, NewUsageError(fmt.Sprintf("日期 %q 格式錯誤，請使用 YYYY-MM-DD 或 M.D (例: 2025-04-20 或 4.20)", value), nil)
}

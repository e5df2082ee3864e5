package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSequentialPolicy_Groups(t *testing.T) {
	p, err := NewSequentialPolicy(day("2025-04-01"), 10, nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		d, capped := p.DateAt(i)
		assert.Equal(t, "2025-04-01", d.Format(ISODate), "position %d", i)
		assert.False(t, capped)
	}
	for i := 10; i < 20; i++ {
		d, _ := p.DateAt(i)
		assert.Equal(t, "2025-04-02", d.Format(ISODate), "position %d", i)
	}
	d, _ := p.DateAt(305)
	assert.Equal(t, "2025-05-01", d.Format(ISODate))
}

func TestSequentialPolicy_Cap(t *testing.T) {
	end := day("2025-04-01")
	p, err := NewSequentialPolicy(day("2025-04-01"), 10, &end)
	require.NoError(t, err)

	doc := &Document{Surgeries: make([]SurgeryRecord, 25)}
	stats := doc.AssignOperateDates(p, true)

	assert.Equal(t, AssignStats{Total: 25, Updated: 25, Capped: true}, stats)
	for _, rec := range doc.Surgeries {
		assert.Equal(t, "2025-04-01", rec.OperateDate)
	}
}

func TestSequentialPolicy_InvalidGroupSize(t *testing.T) {
	for _, g := range []int{0, -3} {
		_, err := NewSequentialPolicy(day("2025-04-01"), g, nil)
		require.Error(t, err)
		assert.Equal(t, KindUsage, KindOf(err))
	}
}

func TestRandomPolicy_SeedIsDeterministic(t *testing.T) {
	seed := int64(42)
	draw := func() []string {
		p, err := NewRandomPolicy(day("2025-04-01"), day("2025-08-31"), &seed)
		require.NoError(t, err)
		out := make([]string, 50)
		for i := range out {
			d, capped := p.DateAt(i)
			assert.False(t, capped)
			out[i] = d.Format(ISODate)
		}
		return out
	}

	first := draw()
	assert.Equal(t, first, draw())
	for _, d := range first {
		assert.GreaterOrEqual(t, d, "2025-04-01")
		assert.LessOrEqual(t, d, "2025-08-31")
	}
}

func TestRandomPolicy_SingleDay(t *testing.T) {
	p, err := NewRandomPolicy(day("2025-06-15"), day("2025-06-15"), nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		d, _ := p.DateAt(i)
		assert.Equal(t, "2025-06-15", d.Format(ISODate))
	}
}

func TestRandomPolicy_EndBeforeStart(t *testing.T) {
	_, err := NewRandomPolicy(day("2025-05-01"), day("2025-04-30"), nil)
	require.Error(t, err)
	assert.Equal(t, KindUsage, KindOf(err))
}

func TestAssignOperateDates_SkipExisting(t *testing.T) {
	p, err := NewSequentialPolicy(day("2025-04-01"), 1, nil)
	require.NoError(t, err)

	doc := &Document{Surgeries: []SurgeryRecord{{OperateDate: "2024-12-31"}, {}, {}}}
	stats := doc.AssignOperateDates(p, false)

	assert.Equal(t, 2, stats.Updated)
	assert.Equal(t, "2024-12-31", doc.Surgeries[0].OperateDate)
	assert.Equal(t, "2025-04-02", doc.Surgeries[1].OperateDate)
	assert.Equal(t, "2025-04-03", doc.Surgeries[2].OperateDate)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-20", 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-20", d.Format(ISODate))

	d, err = ParseDate(" 4.20 ", 2026)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-20", d.Format(ISODate))

	for _, bad := range []string{"2025/04/20", "2025-02-30", "2.30", "13.1", "", "四月"} {
		_, err := ParseDate(bad, 2025)
		require.Error(t, err, "value %q", bad)
		assert.Equal(t, KindUsage, KindOf(err))
	}
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScheduleMetadata(t *testing.T) {
	lines := []string{"# 手术排班", "2025年04月01日 星期二 共35台", "2025年05月01日"}

	meta := ExtractScheduleMetadata(lines, DefaultLookaheadLines)

	require.NotNil(t, meta.DateText)
	assert.Equal(t, "2025年04月01日", *meta.DateText)
	require.NotNil(t, meta.DateISO)
	assert.Equal(t, "2025-04-01", *meta.DateISO)
	require.NotNil(t, meta.Weekday)
	assert.Equal(t, "星期二", *meta.Weekday)
	require.NotNil(t, meta.TotalCount)
	assert.Equal(t, 35, *meta.TotalCount)
}

func TestExtractScheduleMetadata_OptionalParts(t *testing.T) {
	meta := ExtractScheduleMetadata([]string{"手术通知 2025年04月02日共12台"}, DefaultLookaheadLines)
	require.NotNil(t, meta.DateISO)
	assert.Equal(t, "2025-04-02", *meta.DateISO)
	assert.Nil(t, meta.Weekday)
	require.NotNil(t, meta.TotalCount)
	assert.Equal(t, 12, *meta.TotalCount)

	meta = ExtractScheduleMetadata([]string{"2025年04月06日 星期天"}, DefaultLookaheadLines)
	require.NotNil(t, meta.Weekday)
	assert.Equal(t, "星期天", *meta.Weekday)
	assert.Nil(t, meta.TotalCount)
}

func TestExtractScheduleMetadata_InvalidCalendarDate(t *testing.T) {
	meta := ExtractScheduleMetadata([]string{"2025年02月30日 星期日"}, DefaultLookaheadLines)

	require.NotNil(t, meta.DateText)
	assert.Equal(t, "2025年02月30日", *meta.DateText)
	assert.Nil(t, meta.DateISO)
	require.NotNil(t, meta.Weekday)
	assert.Equal(t, "星期日", *meta.Weekday)
}

func TestExtractScheduleMetadata_Window(t *testing.T) {
	lines := []string{"a", "b", "2025年04月01日"}

	meta := ExtractScheduleMetadata(lines, 2)
	assert.Equal(t, ScheduleMetadata{}, meta)

	meta = ExtractScheduleMetadata(lines, 3)
	assert.NotNil(t, meta.DateISO)
}

func TestExtractScheduleMetadata_NoMatch(t *testing.T) {
	meta := ExtractScheduleMetadata([]string{"2025-04-01", "25年4月1日"}, DefaultLookaheadLines)
	assert.Equal(t, ScheduleMetadata{}, meta)
	assert.Equal(t, ScheduleMetadata{}, ExtractScheduleMetadata(nil, DefaultLookaheadLines))
}

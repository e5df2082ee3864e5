package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPayload_ShapeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"array root", `[1, 2]`, ErrNotObject},
		{"string root", `"x"`, ErrNotObject},
		{"missing surgeries", `{"schedule": {}}`, ErrSurgeriesMissing},
		{"surgeries object", `{"surgeries": {}}`, ErrSurgeriesNotArray},
		{"surgeries null", `{"surgeries": null}`, ErrSurgeriesNotArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPayload([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, KindInput, KindOf(err))
		})
	}
}

func TestLoadPayload_InvalidJSON(t *testing.T) {
	for _, input := range []string{``, `{`, `not json`, `{"surgeries": []} trailing`} {
		_, err := LoadPayload([]byte(input))
		require.Error(t, err, "input %q", input)
		assert.Equal(t, KindInput, KindOf(err))
	}
}

func TestPayload_AssignDatesPreservesOrder(t *testing.T) {
	input := `{"zeta": 1, "surgeries": [{"name": "a<b>", "room": "1", "extra": {"k": [1, 2]}}], "alpha": true}`
	p, err := LoadPayload([]byte(input))
	require.NoError(t, err)

	policy, err := NewSequentialPolicy(day("2025-04-01"), 10, nil)
	require.NoError(t, err)
	stats, err := p.AssignDates(DefaultDateField, policy, false)
	require.NoError(t, err)
	assert.Equal(t, AssignStats{Total: 1, Updated: 1}, stats)

	out, err := EncodeJSON(p, false)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zeta":1,"surgeries":[{"name":"a<b>","room":"1","extra":{"k":[1,2]},"operate_date":"2025-04-01"}],"alpha":true}`,
		string(out))
}

func TestPayload_AssignDatesSkipsTruthyAndNonObjects(t *testing.T) {
	input := `{"surgeries": [
		{"operate_date": "2024-01-01"},
		{"operate_date": ""},
		{"operate_date": null},
		5,
		{"name": "x"}
	]}`
	p, err := LoadPayload([]byte(input))
	require.NoError(t, err)

	policy, err := NewSequentialPolicy(day("2025-04-01"), 1, nil)
	require.NoError(t, err)
	stats, err := p.AssignDates(DefaultDateField, policy, false)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Updated)
	assert.JSONEq(t, `{"operate_date": "2024-01-01"}`, string(p.Surgery(0)))
	assert.JSONEq(t, `{"operate_date": "2025-04-02"}`, string(p.Surgery(1)))
	assert.JSONEq(t, `{"operate_date": "2025-04-03"}`, string(p.Surgery(2)))
	assert.JSONEq(t, `5`, string(p.Surgery(3)))
	assert.JSONEq(t, `{"name": "x", "operate_date": "2025-04-05"}`, string(p.Surgery(4)))
}

func TestPayload_AssignDatesOverwriteAndCustomField(t *testing.T) {
	p, err := LoadPayload([]byte(`{"surgeries": [{"date": "2024-01-01"}, {"date": "2024-01-02"}]}`))
	require.NoError(t, err)

	end := day("2025-04-01")
	policy, err := NewSequentialPolicy(day("2025-04-01"), 1, &end)
	require.NoError(t, err)
	stats, err := p.AssignDates("date", policy, true)
	require.NoError(t, err)

	assert.Equal(t, AssignStats{Total: 2, Updated: 2, Capped: true}, stats)
	assert.JSONEq(t, `{"date": "2025-04-01"}`, string(p.Surgery(1)))

	_, err = p.AssignDates("", policy, true)
	assert.Equal(t, KindUsage, KindOf(err))
}

func TestIsTruthy(t *testing.T) {
	for _, raw := range []string{`null`, `false`, `""`, `0`, `0.0`, `[]`, `{ }`} {
		assert.False(t, isTruthy([]byte(raw)), "raw %s", raw)
	}
	for _, raw := range []string{`true`, `"0"`, `" "`, `1`, `-2.5`, `[0]`, `{"a":null}`} {
		assert.True(t, isTruthy([]byte(raw)), "raw %s", raw)
	}
}

func TestPayload_EscapedTextWrittenLiterally(t *testing.T) {
	input := `{"note": "\u5feb\u901f", "surgeries": [{"name": "\u5f20\u4e09", "tags": ["\u7532", 1.50]}, "\u4e59", {"\u540d": null}]}`
	p, err := LoadPayload([]byte(input))
	require.NoError(t, err)

	policy, err := NewSequentialPolicy(day("2025-04-01"), 10, nil)
	require.NoError(t, err)
	_, err = p.AssignDates(DefaultDateField, policy, false)
	require.NoError(t, err)

	out, err := EncodeJSON(p, false)
	require.NoError(t, err)
	assert.Equal(t,
		`{"note":"快速","surgeries":[{"name":"张三","tags":["甲",1.50],"operate_date":"2025-04-01"},"乙",{"名":null,"operate_date":"2025-04-01"}]}`,
		string(out))
}

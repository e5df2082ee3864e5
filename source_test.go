package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

const tinyTable = "| 手术间 | 手术名称 |\n|---|---|\n| 1 | 清创 |\n"

func TestDecodeText_UTF8(t *testing.T) {
	text, used, err := DecodeText([]byte("\ufeff"+tinyTable), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", used)
	assert.Equal(t, tinyTable, text)
}

func TestDecodeText_InvalidUTF8(t *testing.T) {
	_, _, err := DecodeText([]byte{0xff, 0xfe, 0x41}, "utf-8")
	require.Error(t, err)
	assert.Equal(t, KindInput, KindOf(err))
}

func TestDecodeText_GB18030(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String(tinyTable)
	require.NoError(t, err)

	text, used, err := DecodeText([]byte(encoded), "gb18030")
	require.NoError(t, err)
	assert.Equal(t, "gb18030", used)
	assert.Equal(t, tinyTable, text)

	text, used, err = DecodeText([]byte(encoded), EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, "gb18030", used)
	assert.Equal(t, tinyTable, text)
}

func TestDecodeText_Big5(t *testing.T) {
	const traditional = "| 手術間 | 手術名稱 |\n"
	encoded, err := traditionalchinese.Big5.NewEncoder().String(traditional)
	require.NoError(t, err)

	text, used, err := DecodeText([]byte(encoded), "big5")
	require.NoError(t, err)
	assert.Equal(t, "big5", used)
	assert.Equal(t, traditional, text)
}

func TestDecodeText_UnknownEncoding(t *testing.T) {
	_, _, err := DecodeText([]byte("x"), "klingon-8")
	require.Error(t, err)
	assert.Equal(t, KindUsage, KindOf(err))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "", "c"}, SplitLines("a\r\nb\r\n\rc\n"))
	assert.Nil(t, SplitLines(""))
	assert.Nil(t, SplitLines("\n"))
	assert.Equal(t, []string{"x", ""}, SplitLines("x\n\n"))
}

func TestLoadSource_FrontMatter(t *testing.T) {
	content := "---\n" +
		"title: 四月排班\n" +
		"tags:\n" +
		"  nested:\n" +
		"    a: 1\n" +
		"---\n" +
		tinyTable

	src, err := LoadSource([]byte(content), "utf-8")
	require.NoError(t, err)

	assert.Equal(t, 6, src.LineOffset)
	assert.Equal(t, "四月排班", src.FrontMatter["title"])
	assert.Equal(t, map[string]any{"nested": map[string]any{"a": 1}}, src.FrontMatter["tags"])
	assert.Empty(t, src.Warnings)

	doc := ExtractSource(src, DefaultExtractOptions(TableModeSingle))
	require.Len(t, doc.Surgeries, 1)
	// 行號以原始檔案計算
	assert.Equal(t, 9, doc.Surgeries[0].Row)
	assert.Equal(t, "四月排班", doc.FrontMatter["title"])
}

func TestLoadSource_NoFrontMatter(t *testing.T) {
	src, err := LoadSource([]byte("# 标题\n"+tinyTable), "auto")
	require.NoError(t, err)

	assert.Nil(t, src.FrontMatter)
	assert.Zero(t, src.LineOffset)
	assert.Equal(t, "utf-8", src.Encoding)

	doc := ExtractSource(src, DefaultExtractOptions(TableModeSingle))
	require.Len(t, doc.Surgeries, 1)
	assert.Equal(t, 4, doc.Surgeries[0].Row)
}

func TestLoadSource_BrokenFrontMatterIsContent(t *testing.T) {
	content := "---\n: : bad yaml [\n---\n" + tinyTable

	src, err := LoadSource([]byte(content), "utf-8")
	require.NoError(t, err)
	assert.Nil(t, src.FrontMatter)
	require.Len(t, src.Warnings, 1)

	doc := ExtractSource(src, DefaultExtractOptions(TableModeSingle))
	require.Len(t, doc.Surgeries, 1)
	assert.Equal(t, 6, doc.Surgeries[0].Row)
	assert.Len(t, doc.Warnings, 1)
}

package parser

import (
	"fmt"
	"strings"
)

// ============================================================================
// 手術表擷取
// ============================================================================

// ExtractOptions 擷取設定
type ExtractOptions struct {
	Mode                TableMode
	Aliases             AliasTable
	LookaheadLines      int  // 排程公告行搜尋範圍
	ReconcileTotalCount bool // 以實際筆數覆寫 total_count
}

// DefaultExtractOptions 預設擷取設定
// 多表格模式預設以實際筆數更新 total_count
func DefaultExtractOptions(mode TableMode) ExtractOptions {
	return ExtractOptions{
		Mode:                mode,
		Aliases:             DefaultAliases(),
		LookaheadLines:      DefaultLookaheadLines,
		ReconcileTotalCount: mode == TableModeMulti,
	}
}

// Document 擷取結果
type Document struct {
	Schedule    ScheduleMetadata `json:"schedule"`
	Surgeries   []SurgeryRecord  `json:"surgeries"`
	Warnings    []string         `json:"warnings,omitempty"`
	FrontMatter map[string]any   `json:"front_matter,omitempty"`
	SourceFile  string           `json:"source_file,omitempty"`
	ExtractedAt string           `json:"extracted_at,omitempty"`
}

// Extract 從 Markdown 文字擷取手術排程
func Extract(text string, opts ExtractOptions) *Document {
	return extractLines(SplitLines(text), 0, opts)
}

// ExtractSource 從已解碼的文件擷取手術排程 (行號含 front matter)
func ExtractSource(src *Source, opts ExtractOptions) *Document {
	doc := extractLines(src.Lines, src.LineOffset, opts)
	doc.FrontMatter = src.FrontMatter
	doc.Warnings = append(append([]string(nil), src.Warnings...), doc.Warnings...)
	return doc
}

func extractLines(lines []string, offset int, opts ExtractOptions) *Document {
	if opts.Mode == "" {
		opts.Mode = TableModeSingle
	}
	if len(opts.Aliases.Signature) == 0 {
		opts.Aliases = DefaultAliases()
	}

	doc := &Document{
		Schedule:  ExtractScheduleMetadata(lines, opts.LookaheadLines),
		Surgeries: []SurgeryRecord{},
	}

	found := false
	for i := 0; i < len(lines); {
		if !IsTableLine(lines[i]) {
			i++
			continue
		}
		header := SplitRow(lines[i])
		if !opts.Aliases.MatchesHeader(header) {
			i++
			continue
		}

		found = true
		t := tableScan{
			lines:      lines,
			offset:     offset,
			aliases:    opts.Aliases,
			headerAt:   i,
			index:      NewHeaderIndex(header),
			leadingGap: opts.Mode == TableModeSingle,
		}
		records, next, warnings := t.run()
		doc.Surgeries = append(doc.Surgeries, records...)
		doc.Warnings = append(doc.Warnings, warnings...)

		if opts.Mode == TableModeSingle {
			break
		}
		i = max(next, i+1)
	}

	if !found {
		doc.Warnings = append(doc.Warnings,
			fmt.Sprintf("找不到手術表表頭 (需包含: %s)", strings.Join(opts.Aliases.Signature, " / ")))
	}

	if opts.ReconcileTotalCount {
		n := len(doc.Surgeries)
		doc.Schedule.TotalCount = &n
	}
	return doc
}

// tableScan 單一表格的逐列擷取
type tableScan struct {
	lines    []string
	offset   int
	aliases  AliasTable
	headerAt int
	index    HeaderIndex
	// leadingGap 允許表頭與第一筆資料之間出現非表格行
	leadingGap bool
}

// run 回傳紀錄與表格結束後的下一行索引
func (t tableScan) run() ([]SurgeryRecord, int, []string) {
	var warnings []string

	rowStart := t.headerAt + 1
	if rowStart < len(t.lines) && IsTableLine(t.lines[rowStart]) && IsAlignmentRow(SplitRow(t.lines[rowStart])) {
		rowStart++
	} else {
		warnings = append(warnings,
			fmt.Sprintf("第 %d 行表頭後缺少對齊列，繼續解析", t.offset+t.headerAt+1))
	}

	var records []SurgeryRecord
	j := rowStart
	for ; j < len(t.lines); j++ {
		line := t.lines[j]
		if !IsTableLine(line) {
			if t.leadingGap && len(records) == 0 {
				continue
			}
			break
		}

		row := NormalizeRow(SplitRow(line), t.index.Width())
		// 表格中間誤出現的分隔列
		if IsAlignmentRow(row) {
			continue
		}
		records = append(records, BuildRecord(row, t.index, t.aliases, t.offset+j+1))
	}

	return records, j, warnings
}

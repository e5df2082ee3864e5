package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	parser "github.com/Saki-tw/go-surgery-md-parser"
)

type extractOptions struct {
	Input      string `flag:"input" validate:"required"`
	Output     string `flag:"output"`
	Pretty     bool   `flag:"pretty"`
	Encoding   string `flag:"encoding" validate:"required"`
	Mode       string `flag:"mode" validate:"oneof=single multi"`
	Aliases    string `flag:"aliases"`
	Lookahead  int    `flag:"lookahead" validate:"gt=0"`
	Dates      string `flag:"dates" validate:"oneof=none sequential random"`
	GroupSize  int    `flag:"group-size" validate:"gt=0"`
	Provenance bool   `flag:"provenance"`
}

func runExtract(args []string, env *cliEnv) error {
	cfg := env.cfg
	opts := extractOptions{}

	fs := env.newFlagSet("extract")
	fs.StringVar(&opts.Input, "input", "records.md", "輸入 Markdown 檔")
	fs.StringVar(&opts.Input, "i", "records.md", "同 -input")
	fs.StringVar(&opts.Output, "output", "", "輸出 JSON 路徑，- 為 stdout (預設 <input>_surgery.json)")
	fs.StringVar(&opts.Output, "o", "", "同 -output")
	fs.BoolVar(&opts.Pretty, "pretty", false, "縮排輸出 JSON")
	fs.StringVar(&opts.Encoding, "encoding", cfg.Extract.Encoding, "輸入編碼 (utf-8, gb18030, gbk, big5, auto)")
	fs.StringVar(&opts.Mode, "mode", cfg.Extract.TableMode, "擷取策略: single 只取第一個表格, multi 串接所有表格")
	fs.StringVar(&opts.Aliases, "aliases", "", "表頭別名設定 JSON 檔 (選填)")
	fs.IntVar(&opts.Lookahead, "lookahead", cfg.Extract.LookaheadLines, "排程公告行的搜尋行數")
	fs.StringVar(&opts.Dates, "dates", "none", "operate_date 指派: none, sequential, random")
	start := fs.String("start", cfg.Dates.OperateStart, "operate_date 起始日 (YYYY-MM-DD 或 M.D)")
	end := fs.String("end", cfg.Dates.OperateEnd, "random 模式的結束日 (YYYY-MM-DD 或 M.D)")
	fs.IntVar(&opts.GroupSize, "group-size", cfg.Dates.GroupSize, "sequential 模式每幾筆同一天")
	seed := fs.String("seed", "", "random 模式的亂數種子 (選填)")
	fs.BoolVar(&opts.Provenance, "provenance", false, "輸出 source_file 與 extracted_at")
	reconcile := fs.Bool("reconcile-count", false, "以實際筆數覆寫 total_count (預設: multi 開啟, single 關閉)")

	if err := env.parseFlags(fs, args); err != nil {
		return err
	}
	if err := env.check(opts); err != nil {
		return err
	}

	mode, err := parser.ParseTableMode(opts.Mode)
	if err != nil {
		return err
	}
	policy, err := buildExtractPolicy(env, opts, *start, *end, *seed)
	if err != nil {
		return err
	}

	extractOpts := parser.DefaultExtractOptions(mode)
	extractOpts.LookaheadLines = opts.Lookahead
	if flagPassed(fs, "reconcile-count") {
		extractOpts.ReconcileTotalCount = *reconcile
	}
	if opts.Aliases != "" {
		if extractOpts.Aliases, err = loadAliases(opts.Aliases); err != nil {
			return err
		}
	}

	content, err := parser.ReadInputFile(opts.Input)
	if err != nil {
		return err
	}
	src, err := parser.LoadSource(content, opts.Encoding)
	if err != nil {
		return err
	}

	doc := parser.ExtractSource(src, extractOpts)
	if opts.Provenance {
		doc.SourceFile = filepath.ToSlash(opts.Input)
		doc.ExtractedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	for _, w := range doc.Warnings {
		log.Warn().Str("input", opts.Input).Msg(w)
	}

	var stats parser.AssignStats
	if policy != nil {
		stats = doc.AssignOperateDates(policy, true)
	}

	output := opts.Output
	if output == "" {
		suffix := "_surgery"
		if policy != nil {
			suffix = "_surgery_with_operate_date"
		}
		output = parser.DerivedPath(opts.Input, suffix, ".json")
	}
	if err := env.writeOutput(output, doc, opts.Pretty); err != nil {
		return err
	}

	log.Info().
		Str("input", opts.Input).
		Str("output", output).
		Str("encoding", src.Encoding).
		Str("mode", string(mode)).
		Int("surgeries", len(doc.Surgeries)).
		Int("dated", stats.Updated).
		Msg("extract finished")

	if output != "-" {
		fmt.Fprintf(env.stdout, "Wrote: %s | %s | surgeries: %d\n", output, parser.GetModeName(mode), len(doc.Surgeries))
	}
	return nil
}

// flagPassed 是否在命令列明確指定
func flagPassed(fs *flag.FlagSet, name string) bool {
	passed := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

// buildExtractPolicy -dates none 時回傳 nil
func buildExtractPolicy(env *cliEnv, opts extractOptions, start, end, seed string) (parser.DatePolicy, error) {
	if opts.Dates == "none" {
		return nil, nil
	}

	startDate, err := env.parseDate("start", start)
	if err != nil {
		return nil, err
	}
	if opts.Dates == "sequential" {
		return parser.NewSequentialPolicy(startDate, opts.GroupSize, nil)
	}

	endDate, err := env.parseDate("end", end)
	if err != nil {
		return nil, err
	}
	seedValue, err := parseSeed(seed)
	if err != nil {
		return nil, err
	}
	return parser.NewRandomPolicy(startDate, endDate, seedValue)
}

func loadAliases(path string) (parser.AliasTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return parser.AliasTable{}, parser.NewInputError(fmt.Sprintf("找不到別名設定檔: %s", path), err)
	}
	defer f.Close()
	return parser.LoadAliasTable(f)
}

package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	parser "github.com/Saki-tw/go-surgery-md-parser"
)

type assignOptions struct {
	Input     string `flag:"input" validate:"required"`
	Output    string `flag:"output"`
	InPlace   bool   `flag:"in-place"`
	Policy    string `flag:"policy" validate:"oneof=sequential random"`
	NoEndCap  bool   `flag:"no-end-cap"`
	GroupSize int    `flag:"group-size" validate:"gt=0"`
	FieldName string `flag:"field-name" validate:"required"`
	Overwrite bool   `flag:"overwrite-existing"`
	Pretty    bool   `flag:"pretty"`
}

func runAssignDates(args []string, env *cliEnv) error {
	cfg := env.cfg
	opts := assignOptions{}

	fs := env.newFlagSet("assign-dates")
	fs.StringVar(&opts.Input, "input", "", "輸入 JSON 檔 (必填)")
	fs.StringVar(&opts.Output, "output", "", "輸出 JSON 檔 (預設 <input>_with_operate_date.json，-in-place 時忽略)")
	fs.BoolVar(&opts.InPlace, "in-place", false, "直接覆寫輸入檔")
	fs.StringVar(&opts.Policy, "policy", "sequential", "sequential: 每 N 筆遞增一天; random: 區間內隨機")
	start := fs.String("start", cfg.Dates.OperateStart, "起始日 (YYYY-MM-DD)")
	end := fs.String("end", cfg.Dates.OperateEnd, "結束日 (sequential 為上限，random 為區間終點)")
	fs.BoolVar(&opts.NoEndCap, "no-end-cap", false, "sequential 模式不以 -end 截斷")
	fs.IntVar(&opts.GroupSize, "group-size", cfg.Dates.GroupSize, "每幾筆共用同一天")
	fs.StringVar(&opts.FieldName, "field-name", parser.DefaultDateField, "要寫入的欄位名稱")
	fs.BoolVar(&opts.Overwrite, "overwrite-existing", false, "覆寫已存在的日期")
	seed := fs.String("seed", "", "random 模式的亂數種子 (選填)")
	fs.BoolVar(&opts.Pretty, "pretty", false, "縮排輸出 JSON")

	if err := env.parseFlags(fs, args); err != nil {
		return err
	}
	if err := env.check(opts); err != nil {
		return err
	}

	startDate, err := env.parseDate("start", *start)
	if err != nil {
		return err
	}
	// 只有 random 或有上限的 sequential 會用到 -end
	var endDate *time.Time
	if opts.Policy == "random" || !opts.NoEndCap {
		d, err := env.parseDate("end", *end)
		if err != nil {
			return err
		}
		endDate = &d
	}
	policy, err := buildAssignPolicy(opts, startDate, endDate, *seed)
	if err != nil {
		return err
	}

	content, err := parser.ReadInputFile(opts.Input)
	if err != nil {
		return err
	}
	payload, err := parser.LoadPayload(content)
	if err != nil {
		return err
	}

	stats, err := payload.AssignDates(opts.FieldName, policy, opts.Overwrite)
	if err != nil {
		return err
	}

	output := resolveOutput(opts.Input, opts.Output, opts.InPlace, "_with_operate_date")
	if err := env.writeOutput(output, payload, opts.Pretty); err != nil {
		return err
	}

	log.Info().
		Str("input", opts.Input).
		Str("output", output).
		Str("policy", opts.Policy).
		Int("total", stats.Total).
		Int("updated", stats.Updated).
		Bool("capped", stats.Capped).
		Msg("assign-dates finished")

	msg := fmt.Sprintf("Wrote %s | surgeries: %d, updated: %d", output, stats.Total, stats.Updated)
	if stats.Capped && endDate != nil {
		msg += fmt.Sprintf(" (capped at %s)", endDate.Format(parser.ISODate))
	}
	fmt.Fprintln(env.stdout, msg)
	return nil
}

// buildAssignPolicy end 為 nil 代表 sequential 不設上限
func buildAssignPolicy(opts assignOptions, start time.Time, end *time.Time, seed string) (parser.DatePolicy, error) {
	if opts.Policy == "random" {
		seedValue, err := parseSeed(seed)
		if err != nil {
			return nil, err
		}
		return parser.NewRandomPolicy(start, *end, seedValue)
	}
	return parser.NewSequentialPolicy(start, opts.GroupSize, end)
}

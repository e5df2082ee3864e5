package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	parser "github.com/Saki-tw/go-surgery-md-parser"
)

type trimOptions struct {
	Input            string `flag:"input" validate:"required"`
	Output           string `flag:"output"`
	InPlace          bool   `flag:"in-place"`
	DropFirst        int    `flag:"drop-first" validate:"gte=0"`
	UpdateTotalCount bool   `flag:"update-total-count"`
	Pretty           bool   `flag:"pretty"`
}

func runTrim(args []string, env *cliEnv) error {
	opts := trimOptions{}

	fs := env.newFlagSet("trim")
	fs.StringVar(&opts.Input, "input", "", "輸入 JSON 檔 (必填)")
	fs.StringVar(&opts.Output, "output", "", "輸出 JSON 檔 (預設 <input>_trimmed.json，-in-place 時忽略)")
	fs.BoolVar(&opts.InPlace, "in-place", false, "直接覆寫輸入檔")
	fs.IntVar(&opts.DropFirst, "drop-first", env.cfg.Trim.DropFirst, "刪除前幾筆")
	fs.BoolVar(&opts.UpdateTotalCount, "update-total-count", false, "schedule.total_count 為整數時更新為剩餘筆數")
	fs.BoolVar(&opts.Pretty, "pretty", false, "縮排輸出 JSON")

	if err := env.parseFlags(fs, args); err != nil {
		return err
	}
	if err := env.check(opts); err != nil {
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

	stats, err := payload.Trim(opts.DropFirst, opts.UpdateTotalCount)
	if err != nil {
		return err
	}

	output := resolveOutput(opts.Input, opts.Output, opts.InPlace, "_trimmed")
	if err := env.writeOutput(output, payload, opts.Pretty); err != nil {
		return err
	}

	log.Info().
		Str("input", opts.Input).
		Str("output", output).
		Int("dropped", opts.DropFirst).
		Int("original", stats.Original).
		Int("remaining", stats.Remaining).
		Msg("trim finished")

	fmt.Fprintf(env.stdout, "Wrote %s | dropped %d of %d | remaining %d\n", output, opts.DropFirst, stats.Original, stats.Remaining)
	return nil
}

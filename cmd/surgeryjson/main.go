// Package main 手術排程 Markdown 轉 JSON 命令列工具
//
//	surgeryjson extract      -i records.md -pretty
//	surgeryjson assign-dates -input records_surgery.json -group-size 10
//	surgeryjson trim         -input records_surgery.json -drop-first 50
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	parser "github.com/Saki-tw/go-surgery-md-parser"
	"github.com/Saki-tw/go-surgery-md-parser/internal/config"
	"github.com/Saki-tw/go-surgery-md-parser/internal/observability"
	"github.com/Saki-tw/go-surgery-md-parser/internal/validation"
)

const serviceName = "surgeryjson"

const (
	exitOK    = 0
	exitInput = 1
	exitUsage = 2
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: 環境變數設定錯誤: %v\n", serviceName, err)
		os.Exit(exitUsage)
	}
	observability.InitLogger(serviceName, cfg.Environment, cfg.Log.Level)

	os.Exit(run(os.Args[1:], cfg, os.Stdout, os.Stderr))
}

// command 子命令
type command struct {
	name    string
	summary string
	run     func(args []string, env *cliEnv) error
}

var commands = []command{
	{name: "extract", summary: "從 Markdown 擷取手術表並輸出 JSON", run: runExtract},
	{name: "assign-dates", summary: "為既有 JSON 的每筆手術填入 operate_date", run: runAssignDates},
	{name: "trim", summary: "刪除 JSON 中前 N 筆手術", run: runTrim},
}

// cliEnv 子命令共用的執行環境
type cliEnv struct {
	cfg      *config.Config
	validate *validation.Validator
	stdout   io.Writer
	stderr   io.Writer
}

func run(args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	v, err := validation.New()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return exitInput
	}
	env := &cliEnv{cfg: cfg, validate: v, stdout: stdout, stderr: stderr}

	for _, cmd := range commands {
		if cmd.name != args[0] {
			continue
		}
		err := cmd.run(args[1:], env)
		switch {
		case err == nil:
			return exitOK
		case errors.Is(err, flag.ErrHelp):
			return exitOK
		default:
			fmt.Fprintf(stderr, "%s %s: %v\n", serviceName, cmd.name, err)
			return exitCode(err)
		}
	}

	fmt.Fprintf(stderr, "%s: 未知的子命令 %q\n\n", serviceName, args[0])
	printUsage(stderr)
	return exitUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "用法: %s <command> [flags]\n\n", serviceName)
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-13s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintf(w, "\n各子命令以 -h 查看參數；預設值可由 %s* 環境變數調整\n", config.Prefix)
}

func exitCode(err error) int {
	if parser.KindOf(err) == parser.KindUsage {
		return exitUsage
	}
	return exitInput
}

// newFlagSet 解析錯誤一律回傳 (不直接結束程式)
func (e *cliEnv) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(serviceName+" "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (e *cliEnv) parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return parser.NewUsageError("參數錯誤", err)
	}
	if fs.NArg() > 0 {
		return parser.NewUsageError(fmt.Sprintf("多餘的參數: %s", strings.Join(fs.Args(), " ")), nil)
	}
	return nil
}

func (e *cliEnv) check(opts any) error {
	if err := e.validate.Struct(opts); err != nil {
		return parser.NewUsageError("參數錯誤", err)
	}
	return nil
}

func (e *cliEnv) parseDate(flagName, value string) (time.Time, error) {
	t, err := parser.ParseDate(value, e.cfg.Dates.DefaultYear)
	if err != nil {
		return time.Time{}, fmt.Errorf("-%s: %w", flagName, err)
	}
	return t, nil
}

// parseSeed 空字串代表不固定亂數種子
func parseSeed(value string) (*int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, parser.NewUsageError(fmt.Sprintf("-seed 必須是整數: %q", value), err)
	}
	return &n, nil
}

// resolveOutput 依 -in-place / -output 決定輸出路徑
func resolveOutput(input, output string, inPlace bool, suffix string) string {
	switch {
	case inPlace:
		return input
	case output != "":
		return output
	default:
		return parser.DerivedPath(input, suffix, "")
	}
}

// writeOutput 寫入檔案，"-" 代表 stdout
func (e *cliEnv) writeOutput(path string, v any, pretty bool) error {
	data, err := parser.EncodeJSON(v, pretty)
	if err != nil {
		return err
	}
	if path == "-" {
		if _, err := e.stdout.Write(data); err != nil {
			return err
		}
		if !pretty {
			_, err = io.WriteString(e.stdout, "\n")
		}
		return err
	}
	return parser.WriteFileAtomic(path, data)
}

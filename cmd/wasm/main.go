//go:build js && wasm

package main

import (
	"syscall/js"

	parser "github.com/Saki-tw/go-surgery-md-parser"
)

func failure(msg string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   msg,
	}
}

// parseSurgeryMarkdown 解析手術排程 Markdown 並返回 JSON
// 參數: content, mode (選填，single / multi)
func parseSurgeryMarkdown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return failure("請提供要解析的 Markdown 內容")
	}

	content := args[0].String()
	mode := parser.TableModeSingle
	if len(args) >= 2 && args[1].Type() == js.TypeString {
		m, err := parser.ParseTableMode(args[1].String())
		if err != nil {
			return failure(err.Error())
		}
		mode = m
	}

	// 瀏覽器端的字串一律是 UTF-8
	src, err := parser.LoadSource([]byte(content), "utf-8")
	if err != nil {
		return failure(err.Error())
	}
	doc := parser.ExtractSource(src, parser.DefaultExtractOptions(mode))

	jsonBytes, err := parser.EncodeJSON(doc, true)
	if err != nil {
		return failure(err.Error())
	}

	dateISO := ""
	if doc.Schedule.DateISO != nil {
		dateISO = *doc.Schedule.DateISO
	}
	warnings := make([]interface{}, len(doc.Warnings))
	for i, w := range doc.Warnings {
		warnings[i] = w
	}

	return map[string]interface{}{
		"success": true,
		"data":    string(jsonBytes),
		"summary": map[string]interface{}{
			"surgeries": len(doc.Surgeries),
			"mode":      string(mode),
			"modeName":  parser.GetModeName(mode),
			"date_iso":  dateISO,
			"warnings":  warnings,
		},
	}
}

// getSupportedModes 取得支援的擷取策略
func getSupportedModes(this js.Value, args []js.Value) interface{} {
	jsonBytes, err := parser.EncodeJSON(parser.GetSupportedModes(), false)
	if err != nil {
		return failure(err.Error())
	}
	return string(jsonBytes)
}

func main() {
	c := make(chan struct{})

	js.Global().Set("parseSurgeryMarkdown", js.FuncOf(parseSurgeryMarkdown))
	js.Global().Set("getSupportedModes", js.FuncOf(getSupportedModes))

	js.Global().Set("wasmReady", true)

	println("go-surgery-md-parser WASM 模組已載入")

	<-c
}

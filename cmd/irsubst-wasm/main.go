//go:build js && wasm

// Command irsubst-wasm is the WebAssembly build of the IR rewriter.
// It exposes rewrite and collect to JavaScript via syscall/js.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/HugoDaniel/irsubst/pkg/api"
)

var version = "0.1.0"

func main() {
	// Export functions to JavaScript
	js.Global().Set("__irsubst", js.ValueOf(map[string]interface{}{
		"rewrite": js.FuncOf(rewriteJS),
		"collect": js.FuncOf(collectJS),
		"version": version,
	}))

	// Keep the Go runtime alive
	select {}
}

// rewriteJS is the JavaScript-callable rewrite function.
// Signature: __irsubst.rewrite(source: string, options?: object) => object
//
// Options mirror api.RewriteOptions; strict defaults to true.
func rewriteJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("rewrite requires at least 1 argument (source)")
	}

	source := args[0].String()
	opts := api.RewriteOptions{Strict: true}
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		if err := decodeOptions(args[1], &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
	}

	result := api.Rewrite(source, opts)
	return map[string]interface{}{
		"code":          result.Code,
		"errors":        toJSArray(result.Errors),
		"warnings":      toJSArray(result.Warnings),
		"substitutions": result.Substitutions,
		"originalSize":  result.OriginalSize,
		"outputSize":    result.OutputSize,
	}
}

// collectJS is the JavaScript-callable collect function.
// Signature: __irsubst.collect(source: string, tensor: string, options?: object) => object
func collectJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("collect requires 2 arguments (source, tensor)")
	}

	opts := api.CollectOptions{Tensor: args[1].String()}
	if len(args) > 2 && !args[2].IsUndefined() && !args[2].IsNull() {
		if err := decodeOptions(args[2], &opts); err != nil {
			return makeError("invalid options: " + err.Error())
		}
		opts.Tensor = args[1].String()
	}

	result := api.Collect(args[0].String(), opts)
	return map[string]interface{}{
		"indices": toJSArray(result.Indices),
		"errors":  toJSArray(result.Errors),
	}
}

// decodeOptions fills opts from a JS object through its JSON form.
func decodeOptions(jsVal js.Value, opts interface{}) error {
	jsonStr := js.Global().Get("JSON").Call("stringify", jsVal).String()
	return json.Unmarshal([]byte(jsonStr), opts)
}

func toJSArray(list []string) []interface{} {
	out := make([]interface{}, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

// makeError creates a result object with an error.
func makeError(msg string) interface{} {
	return map[string]interface{}{
		"code":   "",
		"errors": []interface{}{msg},
	}
}

// Package main provides a C-callable static library for IR variable
// substitution.
//
// This is built with -buildmode=c-archive to produce libirsubst.a
// that can be linked into Zig/C/Rust programs.
//
// Build:
//
//	CGO_ENABLED=1 go build -buildmode=c-archive -o build/libirsubst.a ./cmd/irsubst-lib
//
// Exported functions:
//
//	irsubst_rewrite(source, source_len, options_json, options_len, out_code, out_code_len, out_json, out_json_len) -> error_code
//	irsubst_collect(source, source_len, options_json, options_len, out_json, out_json_len) -> error_code
//	irsubst_free(ptr) -> void
//	irsubst_version() -> *char
package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/HugoDaniel/irsubst/pkg/api"
)

const version = "0.1.0"

// Error codes
const (
	IRSUBST_OK              = 0
	IRSUBST_ERR_JSON_ENCODE = 1
	IRSUBST_ERR_NULL_INPUT  = 2
	IRSUBST_ERR_JSON_DECODE = 3
)

// irsubst_rewrite applies the substitutions in options_json to source.
//
// Parameters:
//   - source: IR source code (UTF-8)
//   - source_len: length of source in bytes
//   - options_json: JSON api.RewriteOptions (may be NULL; strict defaults to true)
//   - options_len: length of options_json
//   - out_code: receives the rewritten code (caller must free with irsubst_free)
//   - out_code_len: receives the length of out_code
//   - out_json: receives the JSON api.RewriteResult (caller must free with irsubst_free)
//   - out_json_len: receives the length of out_json
//
// Returns 0 on success, or an error code. Rewrite errors are reported in
// the JSON result, not through the return value.
//
//export irsubst_rewrite
func irsubst_rewrite(
	source *C.char,
	source_len C.int,
	options_json *C.char,
	options_len C.int,
	out_code **C.char,
	out_code_len *C.int,
	out_json **C.char,
	out_json_len *C.int,
) C.int {
	if source == nil {
		return IRSUBST_ERR_NULL_INPUT
	}

	opts := api.RewriteOptions{Strict: true}
	if options_json != nil && options_len > 0 {
		if err := json.Unmarshal(C.GoBytes(unsafe.Pointer(options_json), options_len), &opts); err != nil {
			return IRSUBST_ERR_JSON_DECODE
		}
	}

	result := api.Rewrite(C.GoStringN(source, source_len), opts)

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return IRSUBST_ERR_JSON_ENCODE
	}

	*out_code = C.CString(result.Code)
	*out_code_len = C.int(len(result.Code))
	*out_json = C.CString(string(jsonBytes))
	*out_json_len = C.int(len(jsonBytes))
	return IRSUBST_OK
}

// irsubst_collect returns the index lists of every access to the tensor
// named in options_json as a JSON api.CollectResult.
//
//export irsubst_collect
func irsubst_collect(
	source *C.char,
	source_len C.int,
	options_json *C.char,
	options_len C.int,
	out_json **C.char,
	out_json_len *C.int,
) C.int {
	if source == nil || options_json == nil {
		return IRSUBST_ERR_NULL_INPUT
	}

	var opts api.CollectOptions
	if err := json.Unmarshal(C.GoBytes(unsafe.Pointer(options_json), options_len), &opts); err != nil {
		return IRSUBST_ERR_JSON_DECODE
	}

	jsonBytes, err := json.Marshal(api.Collect(C.GoStringN(source, source_len), opts))
	if err != nil {
		return IRSUBST_ERR_JSON_ENCODE
	}

	*out_json = C.CString(string(jsonBytes))
	*out_json_len = C.int(len(jsonBytes))
	return IRSUBST_OK
}

// irsubst_free frees memory allocated by irsubst functions.
//
//export irsubst_free
func irsubst_free(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

// irsubst_version returns the library version string.
// The returned pointer must be released with irsubst_free.
//
//export irsubst_version
func irsubst_version() *C.char {
	return C.CString(version)
}

// Required for c-archive build mode
func main() {}

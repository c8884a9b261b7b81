//go:build wasip1

// Command lispc-wasm-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface. The HTTP
// server's sandbox mode hosts this binary with wazero.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "code": "<expression>" }
//	stdout: { "output": "<C source>" }                         on success (exit code 0)
//	        { "error": "<message>", "kind": "...", "code": "..." } on failure (exit code 1)
//
// A request that is not valid JSON exits with code 2.
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o lispc.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"code":"(+ 1 2)"}' | wasmtime lispc.wasm
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/lispc"
	"github.com/sandrolain/lispc/pkg/types"
)

type request struct {
	Code *string `json:"code"`
}

func writeResponse(out types.Outcome, exitCode int) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(out)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(types.Failure(types.NewError(types.ErrInternal, "invalid request JSON: "+err.Error(), -1)), 2)
	}
	if req.Code == nil {
		writeResponse(types.Failure(types.NewError(types.ErrInternal, `request has no "code" field`, -1)), 2)
	}

	out := lispc.Transpile(*req.Code)
	if !out.OK() {
		writeResponse(out, 1)
	}
	writeResponse(out, 0)
}

//go:build js && wasm

// Command lispc-wasm-js is the WebAssembly entrypoint for browser and Node.js.
//
// It exposes a global `lispc` object with the following API:
//
//	lispc.version()          → string
//	lispc.transpile(code)    → outcomeJSON  ({"output": ...} or {"error": ..., "kind": ...})
//	lispc.evaluate(code)     → string       (value as the C program prints it; throws on error)
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o lispc.wasm ./cmd/wasm/js/
//
// Usage in browser:
//
//	<script src="wasm_exec.js"></script>
//	<script>
//	  const go = new Go()
//	  WebAssembly.instantiateStreaming(fetch('lispc.wasm'), go.importObject)
//	    .then(r => { go.run(r.instance); console.log(lispc.transpile('(+ 1 2)')) })
//	</script>
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/sandrolain/lispc"
)

// jsThrow panics with a JS Error so the caller receives a thrown exception.
func jsThrow(msg string) {
	panic(js.Global().Get("Error").New(msg))
}

// jsTranspile implements lispc.transpile(code) → outcomeJSON.
func jsTranspile(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("lispc.transpile requires 1 argument: code (string)")
	}
	out, err := json.Marshal(lispc.Transpile(args[0].String()))
	if err != nil {
		jsThrow(fmt.Sprintf("lispc.transpile: marshal outcome: %v", err))
	}
	return string(out)
}

// jsEvaluate implements lispc.evaluate(code) → string.
func jsEvaluate(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsThrow("lispc.evaluate requires 1 argument: code (string)")
	}
	v, err := lispc.Evaluate(args[0].String())
	if err != nil {
		jsThrow(fmt.Sprintf("lispc.evaluate: %v", err))
	}
	return v.String()
}

func main() {
	api := map[string]interface{}{
		"transpile": js.FuncOf(jsTranspile),
		"evaluate":  js.FuncOf(jsEvaluate),
		"version": js.FuncOf(func(_ js.Value, _ []js.Value) interface{} {
			return lispc.Version()
		}),
	}
	js.Global().Set("lispc", js.ValueOf(api))

	// The JS event loop owns execution from here.
	select {}
}

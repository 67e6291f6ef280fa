// Package hlslcc provides a Pure Go HLSL cross-compiler front-end.
//
// hlslcc parses HLSL source into an AST, writes the AST back to HLSL and
// rewrites shaders before they reach a platform compiler:
//   - RemoveUnusedOutputs prunes outputs the next stage never reads
//   - RemoveUnusedInputs prunes inputs the previous stage never writes
//   - ConvertFromFP32ToFP16 lowers float math to half precision
//
// The functions in this package take and return source text in place, the
// way shader build tools call them. For typed results and errors use the
// hlsl and rewrite packages directly.
//
// Example usage:
//
//	source := `float4 Main(out float4 Color : SV_Target0, out float3 N : NORMAL) { ... }`
//	entryPoint := "Main"
//	if errs, ok := hlslcc.RemoveUnusedOutputs(&source, []string{"SV_Target0"}, nil, &entryPoint); !ok {
//	    log.Fatal(errs)
//	}
//	// source now ends with Optimized_Main, and entryPoint names it.
package hlslcc

import (
	"errors"

	"github.com/gogpu/hlslcc/hlsl"
	"github.com/gogpu/hlslcc/rewrite"
)

// Parse lexes and parses source. It reports false when the source does
// not parse; messages hold the diagnostics either way.
func Parse(source, filename string) (*hlsl.TranslationUnit, hlsl.CompilerMessages, bool) {
	var messages hlsl.CompilerMessages
	tu, err := hlsl.Parse(source, filename, &messages)
	if err != nil {
		return nil, messages, false
	}
	return tu, messages, true
}

// WriteNodesToString writes AST nodes back to HLSL source.
func WriteNodesToString(nodes []hlsl.Node) string {
	return hlsl.WriteNodesToString(nodes)
}

// RemoveUnusedOutputs appends an entry point returning only the used
// outputs to *sourceCode and stores its name in *entryPoint. On failure
// neither is modified and the errors are returned.
func RemoveUnusedOutputs(sourceCode *string, usedOutputs, exceptions []string, entryPoint *string) ([]string, bool) {
	res, err := rewrite.RemoveUnusedOutputs(*sourceCode, usedOutputs, exceptions, *entryPoint)
	if err != nil {
		return errorMessages(err), false
	}
	*sourceCode = res.Source
	*entryPoint = res.EntryPoint
	return nil, true
}

// RemoveUnusedInputs appends an entry point reading only the used inputs
// to *sourceCode and stores its name in *entryPoint. On failure neither is
// modified and the errors are returned.
func RemoveUnusedInputs(sourceCode *string, usedInputs []string, entryPoint *string) ([]string, bool) {
	res, err := rewrite.RemoveUnusedInputs(*sourceCode, usedInputs, *entryPoint)
	if err != nil {
		return errorMessages(err), false
	}
	*sourceCode = res.Source
	*entryPoint = res.EntryPoint
	return nil, true
}

// ConvertFromFP32ToFP16 replaces *sourceCode with a half precision
// version. On failure it is not modified.
func ConvertFromFP32ToFP16(sourceCode *string) ([]string, bool) {
	res, err := rewrite.ConvertFromFP32ToFP16(*sourceCode)
	if err != nil {
		return errorMessages(err), false
	}
	*sourceCode = res.Source
	return nil, true
}

func errorMessages(err error) []string {
	var rerr *rewrite.Error
	if errors.As(err, &rerr) && len(rerr.Messages) > 0 {
		return rerr.Messages
	}
	return []string{err.Error()}
}

package hlslcc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixelShader = `float4 Main(out float4 OutColor : SV_Target0, out float3 OutNormal : NORMAL)
{
    OutColor = float4(1, 0, 0, 1);
    OutNormal = float3(0, 0, 1);
    return OutColor;
}
`

func TestParseAndWrite(t *testing.T) {
	tu, messages, ok := Parse(pixelShader, "Pixel.usf")
	require.True(t, ok, messages.String())
	defer tu.Release()

	text := WriteNodesToString(tu.Nodes)
	assert.True(t, strings.HasPrefix(text, "float4 Main(out float4 OutColor : SV_Target0, out float3 OutNormal : NORMAL)\n{\n"))

	again, messages, ok := Parse(text, "Pixel.usf")
	require.True(t, ok, messages.String())
	defer again.Release()
	assert.Equal(t, text, WriteNodesToString(again.Nodes))
}

func TestParseFailureKeepsMessages(t *testing.T) {
	tu, messages, ok := Parse("#define X 1\nfloat4 Main( {", "Bad.usf")
	assert.False(t, ok)
	assert.Nil(t, tu)
	assert.True(t, messages.HasErrors())
	assert.Equal(t, []string{"Bad.usf(1): (1) Unhandled preprocessor directive '#define'\n"}, messages.Warnings())
}

func TestRemoveUnusedOutputsInPlace(t *testing.T) {
	source := pixelShader
	entryPoint := "Main"

	errs, ok := RemoveUnusedOutputs(&source, []string{"SV_Target0"}, nil, &entryPoint)
	require.True(t, ok, errs)
	assert.Empty(t, errs)
	assert.Equal(t, "Optimized_Main", entryPoint)
	assert.True(t, strings.HasPrefix(source, pixelShader))
	assert.Contains(t, source, "// Removed Outputs: NORMAL\n")
	assert.Contains(t, source, "    float4 OutColor : SV_Target0;\n")
	assert.NotContains(t, source, "OutNormal : NORMAL;")

	// The rewritten source still parses.
	tu, messages, ok := Parse(source, "")
	require.True(t, ok, messages.String())
	tu.Release()
}

func TestRemoveUnusedInputsMissingEntryPointLeavesSource(t *testing.T) {
	source := pixelShader
	entryPoint := "VSMain"

	errs, ok := RemoveUnusedInputs(&source, []string{"SV_Target0"}, &entryPoint)
	assert.False(t, ok)
	assert.Equal(t, []string{"Unable to find entry point VSMain"}, errs)
	assert.Equal(t, pixelShader, source)
	assert.Equal(t, "VSMain", entryPoint)
}

func TestConvertFromFP32ToFP16InPlace(t *testing.T) {
	source := "float3x3 M(float3x3 A, int B) { return A; }\nfloat CalcSceneDepth(float D) { return D; }\n"

	errs, ok := ConvertFromFP32ToFP16(&source)
	require.True(t, ok, errs)
	assert.Equal(t, `#line 1 "ConvertFromFP32ToFP16.usf"
half3x3 M(half3x3 A, int B)
{
    return A;
}

float CalcSceneDepth(float D)
{
    return D;
}

`, source)
}

func TestConvertFromFP32ToFP16Failure(t *testing.T) {
	source := "float4 Main( {"

	errs, ok := ConvertFromFP32ToFP16(&source)
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Equal(t, "float4 Main( {", source)
}

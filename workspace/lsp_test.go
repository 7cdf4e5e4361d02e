package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/hsdoc/registry"
)

func TestToDiagnostics(t *testing.T) {
	diags := toDiagnostics([]registry.Problem{
		{Kind: registry.ProblemUnrecognised, File: "a.lua", Line: 3, EndLine: 4, Message: "unrecognised documentation block"},
		{Kind: registry.ProblemParseError, File: "a.lua", Line: 7, EndLine: 7, Message: "expected Parameters:"},
	})
	require.Len(t, diags, 2)

	assert.Equal(t, protocol.UInteger(2), diags[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(4), diags[0].Range.End.Line)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diags[0].Severity)
	assert.Equal(t, "unrecognised", diags[0].Code.Value)
	assert.Equal(t, "hsdoc", *diags[0].Source)

	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[1].Severity)
	assert.Equal(t, "expected Parameters:", diags[1].Message)
}

func TestToDiagnosticsEmpty(t *testing.T) {
	diags := toDiagnostics(nil)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///home/me/init%20file.lua")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/init file.lua", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}

func TestToProtocolKind(t *testing.T) {
	assert.Equal(t, protocol.CompletionItemKindModule, toProtocolKind(CompletionKindModule))
	assert.Equal(t, protocol.CompletionItemKindMethod, toProtocolKind(CompletionKindMethod))
	assert.Equal(t, protocol.CompletionItemKindFunction, toProtocolKind(CompletionKindFunction))
}

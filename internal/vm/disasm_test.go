package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassembleChunkListsOpcodes(t *testing.T) {
	m := New()
	fn, err := m.Compile("let x = 1 + 2; dump x;")
	require.NoError(t, err)

	out := DisassembleChunk(fn.Chunk, "test chunk")

	assert.True(t, strings.HasPrefix(out, "== test chunk ==\n"), "missing header, got:\n%s", out)
	for _, op := range []string{"CONSTANT", "ADD", "DEFINE_GLOBAL", "GET_GLOBAL", "DUMP"} {
		assert.Contains(t, out, op)
	}
}

func TestDisassembleChunkAnnotatesJumps(t *testing.T) {
	m := New()
	fn, err := m.Compile(`
		if (true) {
			dump 1;
		}
	`)
	require.NoError(t, err)

	out := DisassembleChunk(fn.Chunk, "jumps")
	assert.Contains(t, out, "JUMP_IF_FALSE")
	assert.Contains(t, out, "->")
}

// TestDisassembleChunkAnnotatesClosureUpvalues finds the nested `add`
// function in adder's own chunk (not the top-level script chunk) since
// its CLOSURE instruction, with the descriptor for the captured "n", is
// emitted where `add` is declared, inside adder's body. n is adder's own
// local in slot 1, so the descriptor reads "local 1".
func TestDisassembleChunkAnnotatesClosureUpvalues(t *testing.T) {
	m := New()
	fn, err := m.Compile(`
		fun adder(n) {
			fun add(x) {
				return x + n;
			}
			return add;
		}
	`)
	require.NoError(t, err)

	var adderChunk *Chunk
	for _, c := range fn.Chunk.Constants {
		if c.IsObjType(tFunction) && c.AsFunction().Name != nil && c.AsFunction().Name.Chars == "adder" {
			adderChunk = c.AsFunction().Chunk
		}
	}
	require.NotNil(t, adderChunk, "expected to find adder's function constant in the script chunk")

	out := DisassembleChunk(adderChunk, "adder")
	assert.Contains(t, out, "CLOSURE")
	assert.Contains(t, out, "local 1")
}

package natives

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlang/lumen/internal/vm"
)

// run compiles and runs src against a VM with natives installed, requiring
// no compile or runtime error, and returns everything written via `dump`.
func run(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	m := vm.New()
	m.Out = &out
	Install(m)
	compileErr, runtimeErr := m.Interpret(src)
	require.NoError(t, compileErr)
	require.NoError(t, runtimeErr)
	return out.String()
}

func TestGlobalBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`dump len("hello");`, "5\n"},
		{`dump len([1, 2, 3]);`, "3\n"},
		{`dump len({"a": 1, "b": 2});`, "2\n"},
		{`dump sprint("a", "b", 1);`, "ab1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.src))
		})
	}
}

func TestLenRejectsUnsupportedType(t *testing.T) {
	m := vm.New()
	Install(m)
	_, runtimeErr := m.Interpret(`dump len(5);`)
	assert.Error(t, runtimeErr, "expected a runtime error for len() on a number")
}

func TestMathModule(t *testing.T) {
	src := `
		let math = module("math");
		let sqrt = math.sqrt;
		let floor = math.floor;
		let abs = math.abs;
		dump sqrt(9);
		dump floor(3.7);
		dump abs(-5);
		dump math.pi;
	`
	assert.Equal(t, "3\n3\n5\n3.141592653589793\n", run(t, src))
}

func TestModuleMethodCallableDirectlyViaDotCall(t *testing.T) {
	src := `
		let math = module("math");
		dump math.sqrt(16);
	`
	assert.Equal(t, "4\n", run(t, src))
}

func TestArrayModule(t *testing.T) {
	src := `
		let arr = module("array");
		let push = arr.push;
		let join = arr.join;
		let a = [1, 2];
		let b = push(a, 3);
		dump join(b, "-");
		dump len(a);
	`
	assert.Equal(t, "1-2-3\n2\n", run(t, src))
}

func TestSystemModule(t *testing.T) {
	src := `
		let sys = module("system");
		let env = sys.env;
		dump env("LUMEN_DOES_NOT_EXIST_VAR");
	`
	assert.Equal(t, "nil\n", run(t, src))
}

func TestModuleUnknownNameErrors(t *testing.T) {
	m := vm.New()
	Install(m)
	_, runtimeErr := m.Interpret(`dump module("does-not-exist");`)
	assert.Error(t, runtimeErr, "expected a runtime error for an unregistered module name")
}

func TestUUIDModuleRoundTrip(t *testing.T) {
	src := `
		let u = module("uuid");
		let new = u.new;
		let parse = u.parse;
		let id = new();
		dump parse(id) == id;
	`
	assert.Equal(t, "true\n", run(t, src))
}

func TestFileModuleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "greeting.txt")
	src := fmt.Sprintf(`
		let f = module("file");
		let write = f.write;
		let read = f.read;
		let exists = f.exists;
		let remove = f.remove;
		write(%q, "hello");
		dump exists(%q);
		dump read(%q);
		remove(%q);
		dump exists(%q);
	`, path, path, path, path, path)
	assert.Equal(t, "true\nhello\nfalse\n", run(t, src))
}

func TestYamlModuleRoundTrip(t *testing.T) {
	src := `
		let y = module("yaml");
		let encode = y.encode;
		let decode = y.decode;
		let t = {"name": "lumen", "count": 3};
		let text = encode(t);
		let back = decode(text);
		dump back["name"];
		dump back["count"];
	`
	assert.Equal(t, "lumen\n3\n", run(t, src))
}

func TestHumanizeModule(t *testing.T) {
	src := `
		let h = module("humanize");
		let ordinal = h.ordinal;
		dump ordinal(1);
		dump ordinal(2);
		dump ordinal(3);
	`
	assert.Equal(t, "1st\n2nd\n3rd\n", run(t, src))
}

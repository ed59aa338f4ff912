package natives

import (
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `term` module: isTTY, width, grounded on the
// teacher's builtins_term.go use of go-isatty for the same check
// (SPEC_FULL §4.6).
func init() {
	register(&moduleEntry{
		name: "term",
		fns: map[string]nativeSpec{
			"isTTY": {0, termIsTTY},
			"width": {0, termWidth},
		},
	})
}

func termIsTTY(m *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Bool(isatty.IsTerminal(os.Stdout.Fd())), nil
}

// termWidth reports $COLUMNS when set (the shell keeps it current on
// resize for non-interactive children), falling back to 80 when the
// output isn't a terminal the VM can query directly without pulling in
// a second platform-specific terminal-size dependency.
func termWidth(m *vm.VM, args []vm.Value) (vm.Value, error) {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return vm.Number(float64(cols)), nil
	}
	return vm.Number(80), nil
}

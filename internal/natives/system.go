package natives

import (
	"os"
	"time"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `system` module: clock, args, env, exit, backed
// by stdlib os and time (SPEC_FULL §4.6).
func init() {
	register(&moduleEntry{
		name: "system",
		fns: map[string]nativeSpec{
			"clock": {0, systemClock},
			"args":  {0, systemArgs},
			"env":   {1, systemEnv},
			"exit":  {1, systemExit},
		},
	})
}

func systemClock(m *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Number(float64(time.Now().UnixNano()) / 1e9), nil
}

func systemArgs(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values := make([]vm.Value, len(os.Args))
	for i, a := range os.Args {
		values[i] = m.InternString(a)
	}
	return m.NewArray(values), nil
}

func systemEnv(m *vm.VM, args []vm.Value) (vm.Value, error) {
	name, err := wantString(args, 0, "system.env")
	if err != nil {
		return vm.Value{}, err
	}
	v, ok := os.LookupEnv(name)
	if !ok {
		return vm.Nil(), nil
	}
	return m.InternString(v), nil
}

func systemExit(m *vm.VM, args []vm.Value) (vm.Value, error) {
	code, err := wantNumber(args, 0, "system.exit")
	if err != nil {
		return vm.Value{}, err
	}
	os.Exit(int(code))
	return vm.Nil(), nil
}

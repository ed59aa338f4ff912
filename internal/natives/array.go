package natives

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `array` module: push, pop, sort, slice, join,
// backed by stdlib sort and strings (SPEC_FULL §4.6). push/pop return
// a new array rather than mutating in place, keeping arrays consistent
// with the rest of the language's value semantics for container
// combination (ADD already returns a fresh array for array+array).
func init() {
	register(&moduleEntry{
		name: "array",
		fns: map[string]nativeSpec{
			"push":  {2, arrayPush},
			"pop":   {1, arrayPop},
			"sort":  {1, arraySort},
			"slice": {3, arraySlice},
			"join":  {2, arrayJoin},
		},
	})
}

func wantArray(args []vm.Value, i int, who string) ([]vm.Value, error) {
	if i >= len(args) || !args[i].IsArray() {
		return nil, fmt.Errorf("%s: argument %d must be an array", who, i+1)
	}
	return args[i].AsArray().Values, nil
}

func arrayPush(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values, err := wantArray(args, 0, "array.push")
	if err != nil {
		return vm.Value{}, err
	}
	out := make([]vm.Value, len(values)+1)
	copy(out, values)
	out[len(values)] = args[1]
	return m.NewArray(out), nil
}

func arrayPop(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values, err := wantArray(args, 0, "array.pop")
	if err != nil {
		return vm.Value{}, err
	}
	if len(values) == 0 {
		return vm.Value{}, fmt.Errorf("array.pop: array is empty")
	}
	out := make([]vm.Value, len(values)-1)
	copy(out, values[:len(values)-1])
	return m.NewArray(out), nil
}

func arraySort(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values, err := wantArray(args, 0, "array.sort")
	if err != nil {
		return vm.Value{}, err
	}
	out := make([]vm.Value, len(values))
	copy(out, values)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		if !out[i].IsNumber() || !out[j].IsNumber() {
			sortErr = fmt.Errorf("array.sort: elements must be numbers")
			return false
		}
		return out[i].AsNumber() < out[j].AsNumber()
	})
	if sortErr != nil {
		return vm.Value{}, sortErr
	}
	return m.NewArray(out), nil
}

func arraySlice(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values, err := wantArray(args, 0, "array.slice")
	if err != nil {
		return vm.Value{}, err
	}
	start, err := wantNumber(args, 1, "array.slice")
	if err != nil {
		return vm.Value{}, err
	}
	end, err := wantNumber(args, 2, "array.slice")
	if err != nil {
		return vm.Value{}, err
	}
	lo, hi := int(start), int(end)
	if lo < 0 || hi > len(values) || lo > hi {
		return vm.Value{}, fmt.Errorf("array.slice: bounds out of range")
	}
	out := make([]vm.Value, hi-lo)
	copy(out, values[lo:hi])
	return m.NewArray(out), nil
}

func arrayJoin(m *vm.VM, args []vm.Value) (vm.Value, error) {
	values, err := wantArray(args, 0, "array.join")
	if err != nil {
		return vm.Value{}, err
	}
	sep, err := wantString(args, 1, "array.join")
	if err != nil {
		return vm.Value{}, err
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Inspect()
	}
	return m.InternString(strings.Join(parts, sep)), nil
}

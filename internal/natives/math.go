package natives

import (
	"math"
	"math/rand"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `math` module (spec.md §6, SPEC_FULL §4.6):
// sqrt, floor, ceil, abs, pow, min, max, random, backed by the
// standard library's math package, plus the math.pi constant installed
// by the module's callback.
func init() {
	register(&moduleEntry{
		name: "math",
		fns: map[string]nativeSpec{
			"sqrt":   {1, mathSqrt},
			"floor":  {1, mathFloor},
			"ceil":   {1, mathCeil},
			"abs":    {1, mathAbs},
			"pow":    {2, mathPow},
			"min":    {2, mathMin},
			"max":    {2, mathMax},
			"random": {0, mathRandom},
		},
		callback: func(m *vm.VM, table *vm.TableHandle) {
			table.Set("pi", vm.Number(math.Pi))
		},
	})
}

func mathSqrt(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.sqrt")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Sqrt(x)), nil
}

func mathFloor(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.floor")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Floor(x)), nil
}

func mathCeil(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.ceil")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Ceil(x)), nil
}

func mathAbs(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.abs")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Abs(x)), nil
}

func mathPow(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.pow")
	if err != nil {
		return vm.Value{}, err
	}
	y, err := wantNumber(args, 1, "math.pow")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Pow(x, y)), nil
}

func mathMin(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.min")
	if err != nil {
		return vm.Value{}, err
	}
	y, err := wantNumber(args, 1, "math.min")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Min(x, y)), nil
}

func mathMax(m *vm.VM, args []vm.Value) (vm.Value, error) {
	x, err := wantNumber(args, 0, "math.max")
	if err != nil {
		return vm.Value{}, err
	}
	y, err := wantNumber(args, 1, "math.max")
	if err != nil {
		return vm.Value{}, err
	}
	return vm.Number(math.Max(x, y)), nil
}

func mathRandom(m *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Number(rand.Float64()), nil
}

package natives

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `humanize` module: bytes, ordinal, commaf, time,
// backed by github.com/dustin/go-humanize (SPEC_FULL §4.6).
func init() {
	register(&moduleEntry{
		name: "humanize",
		fns: map[string]nativeSpec{
			"bytes":   {1, humanizeBytes},
			"ordinal": {1, humanizeOrdinal},
			"commaf":  {1, humanizeCommaf},
			"time":    {1, humanizeTime},
		},
	})
}

func humanizeBytes(m *vm.VM, args []vm.Value) (vm.Value, error) {
	n, err := wantNumber(args, 0, "humanize.bytes")
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(humanize.Bytes(uint64(n))), nil
}

func humanizeOrdinal(m *vm.VM, args []vm.Value) (vm.Value, error) {
	n, err := wantNumber(args, 0, "humanize.ordinal")
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(humanize.Ordinal(int(n))), nil
}

func humanizeCommaf(m *vm.VM, args []vm.Value) (vm.Value, error) {
	n, err := wantNumber(args, 0, "humanize.commaf")
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(humanize.Commaf(n)), nil
}

// humanizeTime takes a unix-epoch-seconds number and renders it
// relative to now (e.g. "3 hours ago").
func humanizeTime(m *vm.VM, args []vm.Value) (vm.Value, error) {
	n, err := wantNumber(args, 0, "humanize.time")
	if err != nil {
		return vm.Value{}, err
	}
	t := time.Unix(int64(n), 0)
	return m.InternString(humanize.Time(t)), nil
}

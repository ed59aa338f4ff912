package natives

import (
	"github.com/google/uuid"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `uuid` module: new, parse, backed by
// github.com/google/uuid (SPEC_FULL §4.6).
func init() {
	register(&moduleEntry{
		name: "uuid",
		fns: map[string]nativeSpec{
			"new":   {0, uuidNew},
			"parse": {1, uuidParse},
		},
	})
}

func uuidNew(m *vm.VM, args []vm.Value) (vm.Value, error) {
	return m.InternString(uuid.New().String()), nil
}

func uuidParse(m *vm.VM, args []vm.Value) (vm.Value, error) {
	text, err := wantString(args, 0, "uuid.parse")
	if err != nil {
		return vm.Value{}, err
	}
	parsed, parseErr := uuid.Parse(text)
	if parseErr != nil {
		return vm.Value{}, parseErr
	}
	return m.InternString(parsed.String()), nil
}

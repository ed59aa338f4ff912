package natives

import (
	"os"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `file` module: read, write, append, exists,
// remove, backed by stdlib os (SPEC_FULL §4.6). Each function opens and
// closes any file it needs itself; no file handle is returned to user
// code.
func init() {
	register(&moduleEntry{
		name: "file",
		fns: map[string]nativeSpec{
			"read":   {1, fileRead},
			"write":  {2, fileWrite},
			"append": {2, fileAppend},
			"exists": {1, fileExists},
			"remove": {1, fileRemove},
		},
	})
}

func fileRead(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "file.read")
	if err != nil {
		return vm.Value{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return vm.Value{}, err
	}
	return m.InternString(string(data)), nil
}

func fileWrite(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "file.write")
	if err != nil {
		return vm.Value{}, err
	}
	data, err := wantString(args, 1, "file.write")
	if err != nil {
		return vm.Value{}, err
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return vm.Value{}, err
	}
	return vm.Nil(), nil
}

func fileAppend(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "file.append")
	if err != nil {
		return vm.Value{}, err
	}
	data, err := wantString(args, 1, "file.append")
	if err != nil {
		return vm.Value{}, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return vm.Value{}, err
	}
	defer f.Close()
	if _, err := f.WriteString(data); err != nil {
		return vm.Value{}, err
	}
	return vm.Nil(), nil
}

func fileExists(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "file.exists")
	if err != nil {
		return vm.Value{}, err
	}
	_, statErr := os.Stat(path)
	return vm.Bool(statErr == nil), nil
}

func fileRemove(m *vm.VM, args []vm.Value) (vm.Value, error) {
	path, err := wantString(args, 0, "file.remove")
	if err != nil {
		return vm.Value{}, err
	}
	if err := os.Remove(path); err != nil {
		return vm.Value{}, err
	}
	return vm.Nil(), nil
}

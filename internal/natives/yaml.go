package natives

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lumenlang/lumen/internal/vm"
)

// init registers the `yaml` module: encode, decode, grounded on the
// teacher's builtins_yaml.go round-trip (inferFromYaml/objectToGo),
// adapted to Lumen's Value/Table/Array instead of Funxy's
// Record/List object model (SPEC_FULL §4.6).
func init() {
	register(&moduleEntry{
		name: "yaml",
		fns: map[string]nativeSpec{
			"encode": {1, yamlEncodeNative},
			"decode": {1, yamlDecodeNative},
		},
	})
}

func yamlEncodeNative(m *vm.VM, args []vm.Value) (vm.Value, error) {
	goVal, err := valueToGo(args[0])
	if err != nil {
		return vm.Value{}, err
	}
	out, err := yaml.Marshal(goVal)
	if err != nil {
		return vm.Value{}, fmt.Errorf("yaml.encode: %v", err)
	}
	return m.InternString(string(out)), nil
}

func yamlDecodeNative(m *vm.VM, args []vm.Value) (vm.Value, error) {
	text, err := wantString(args, 0, "yaml.decode")
	if err != nil {
		return vm.Value{}, err
	}
	var data interface{}
	if err := yaml.Unmarshal([]byte(text), &data); err != nil {
		return vm.Value{}, fmt.Errorf("yaml.decode: %v", err)
	}
	return goToValue(m, data)
}

// valueToGo converts a Lumen Value into a plain Go value yaml.Marshal
// understands: numbers/bools/strings/nil pass through, arrays become
// []interface{}, tables become map[string]interface{} (keyed by each
// entry's string Inspect()).
func valueToGo(v vm.Value) (interface{}, error) {
	switch {
	case v.IsNil():
		return nil, nil
	case v.IsBool():
		return v.AsBool(), nil
	case v.IsNumber():
		return v.AsNumber(), nil
	case v.IsString():
		return v.AsString().Chars, nil
	case v.IsArray():
		values := v.AsArray().Values
		out := make([]interface{}, len(values))
		for i, el := range values {
			conv, err := valueToGo(el)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case v.IsTable():
		out := make(map[string]interface{})
		var iterErr error
		v.AsTable().Entries.Iter(func(k, val vm.Value) bool {
			conv, err := valueToGo(val)
			if err != nil {
				iterErr = err
				return true
			}
			out[k.Inspect()] = conv
			return false
		})
		if iterErr != nil {
			return nil, iterErr
		}
		return out, nil
	}
	return nil, fmt.Errorf("yaml.encode: cannot encode a %s", v.TypeName())
}

// goToValue is the inverse of valueToGo, applied to whatever
// yaml.Unmarshal produced.
func goToValue(m *vm.VM, data interface{}) (vm.Value, error) {
	switch d := data.(type) {
	case nil:
		return vm.Nil(), nil
	case bool:
		return vm.Bool(d), nil
	case int:
		return vm.Number(float64(d)), nil
	case int64:
		return vm.Number(float64(d)), nil
	case float64:
		return vm.Number(d), nil
	case string:
		return m.InternString(d), nil
	case []interface{}:
		values := make([]vm.Value, len(d))
		for i, el := range d {
			conv, err := goToValue(m, el)
			if err != nil {
				return vm.Value{}, err
			}
			values[i] = conv
		}
		return m.NewArray(values), nil
	case map[string]interface{}:
		table := m.NewTable()
		for k, val := range d {
			conv, err := goToValue(m, val)
			if err != nil {
				return vm.Value{}, err
			}
			table.Set(k, conv)
		}
		return table.Value(), nil
	case map[interface{}]interface{}:
		table := m.NewTable()
		for k, val := range d {
			conv, err := goToValue(m, val)
			if err != nil {
				return vm.Value{}, err
			}
			table.Set(fmt.Sprintf("%v", k), conv)
		}
		return table.Value(), nil
	}
	return vm.Value{}, fmt.Errorf("yaml.decode: unsupported YAML value type %T", data)
}

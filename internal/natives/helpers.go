package natives

import (
	"fmt"

	"github.com/lumenlang/lumen/internal/vm"
)

func wantNumber(args []vm.Value, i int, who string) (float64, error) {
	if i >= len(args) || !args[i].IsNumber() {
		return 0, fmt.Errorf("%s: argument %d must be a number", who, i+1)
	}
	return args[i].AsNumber(), nil
}

func wantString(args []vm.Value, i int, who string) (string, error) {
	if i >= len(args) || !args[i].IsString() {
		return "", fmt.Errorf("%s: argument %d must be a string", who, i+1)
	}
	return args[i].AsString().Chars, nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimSourceExt(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"script.lumen", "script"},
		{"script.lum", "script"},
		{"script.txt", "script.txt"},
		{"script", "script"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimSourceExt(tt.name))
	}
}

func TestHasSourceExt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"script.lumen", true},
		{"script.lum", true},
		{"script.txt", false},
		{"script", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HasSourceExt(tt.path))
	}
}

func TestExitCodesMatchConvention(t *testing.T) {
	assert.Equal(t, 0, ExitOK)
	assert.Equal(t, 65, ExitCompileError)
	assert.Equal(t, 70, ExitRuntimeError)
}

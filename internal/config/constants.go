// Package config holds language-wide constants shared by the compiler,
// VM and driver: version string, recognized source extensions, and the
// names of the globals installed at VM startup.
package config

// Version is the current Lumen language version.
var Version = "0.1.0"

const SourceFileExt = ".lumen"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".lumen", ".lum"}

// TrimSourceExt removes any recognized source extension from a filename.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Built-in global function names, installed directly into the VM's
// globals table at construction (spec §6).
const (
	PrintFuncName   = "print"
	SprintFuncName  = "sprint"
	PrintlnFuncName = "println"
	LenFuncName     = "len"
	ModuleFuncName  = "module"
)

// Reserved dunder method names, cached as interned strings on the VM
// so operator dispatch never has to re-intern them per call (spec §3).
const (
	InitMethodName = "init"

	DunderAdd = "__add"
	DunderSub = "__sub"
	DunderMul = "__mul"
	DunderDiv = "__div"
	DunderMod = "__mod"
	DunderAnd = "__and"
	DunderOr  = "__or"
	DunderXor = "__xor"
	DunderGt  = "__gt"
	DunderLt  = "__lt"
	DunderEq  = "__eq"
	DunderNot = "__not"
)

// Exit codes, conventional and matching the driver's contract (spec §6).
const (
	ExitOK           = 0
	ExitCompileError = 65
	ExitRuntimeError = 70
)

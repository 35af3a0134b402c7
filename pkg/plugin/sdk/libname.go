package sdk

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// Debug controls whether LibraryFileName builds debug-variant names
// (NAMEd.dll, libNAME_debug.dylib) instead of release names. It is a
// package variable rather than a parameter because the build variant is
// a whole-process property, fixed for the process's lifetime — never
// toggled per call.
var Debug = false

// LibraryFileName returns the platform-native shared library file name
// for a plugin named name, joined onto dir. The naming convention follows
// the host platform's native shared-library scheme, with a distinct
// debug-build variant per platform:
//
//	release: NAME.dll | libNAME.dylib | libNAME.so
//	debug:    NAMEd.dll | libNAME_debug.dylib | libNAME.so
//
// Linux has no distinct debug-build naming convention in this scheme.
func LibraryFileName(dir, name string) string {
	return filepath.Join(dir, libraryBaseName(name))
}

func libraryBaseName(name string) string {
	switch runtime.GOOS {
	case "windows":
		if Debug {
			return fmt.Sprintf("%sd.dll", name)
		}
		return fmt.Sprintf("%s.dll", name)
	case "darwin":
		if Debug {
			return fmt.Sprintf("lib%s_debug.dylib", name)
		}
		return fmt.Sprintf("lib%s.dylib", name)
	default:
		return fmt.Sprintf("lib%s.so", name)
	}
}

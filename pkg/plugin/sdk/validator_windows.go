//go:build windows

package sdk

import (
	"os"
)

// validateOwnership is a no-op on Windows: no Unix-style ownership model
// to check against.
func (v *Validator) validateOwnership(info os.FileInfo) error {
	return nil
}

package sdk

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/glide-cli/plugo/pkg/validation"
)

// Validator checks a plugin library file for basic trust signals before
// a DynamicLoader is asked to load it: it must resolve (symlinks
// followed) to a file inside one of the trusted paths, in strict and
// non-strict mode alike, exist, be executable, not be group- or
// world-writable in strict mode, optionally match a known checksum, and carry a recognizable
// binary header for the host platform. None of these checks are a
// substitute for code signing; they catch accidental misconfiguration
// and obviously-wrong files, not a determined attacker.
type Validator struct {
	strict           bool
	trustedPaths     []string
	allowedChecksums map[string]string
}

// NewValidator creates a validator. Default trusted paths are the
// user's per-user plugin directory and the system-wide plugin directory;
// callers add more with AddTrustedPath.
func NewValidator(strict bool) *Validator {
	home, _ := os.UserHomeDir()
	return &Validator{
		strict: strict,
		trustedPaths: []string{
			filepath.Join(home, ".config", "plugo", "plugins"),
			"/usr/local/lib/plugo/plugins",
		},
		allowedChecksums: make(map[string]string),
	}
}

// Validate checks path against every rule this validator enforces.
func (v *Validator) Validate(path string) error {
	var validatedPath string
	var validationErr error

	for _, trustedPath := range v.trustedPaths {
		validated, err := validation.ValidatePath(path, validation.PathValidationOptions{
			BaseDir:        trustedPath,
			AllowAbsolute:  true,
			FollowSymlinks: true,
			RequireExists:  true,
		})
		if err == nil {
			validatedPath = validated
			validationErr = nil
			break
		}
		validationErr = err
	}

	if validationErr != nil {
		return fmt.Errorf("invalid plugin path: %w", validationErr)
	}
	path = validatedPath

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("plugin not found: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("plugin path is a directory")
	}

	if info.Mode()&0111 == 0 {
		return fmt.Errorf("plugin is not executable")
	}

	if v.strict {
		if info.Mode()&0022 != 0 {
			return fmt.Errorf("plugin must not be world-writable in strict mode")
		}
		if err := v.validateOwnership(info); err != nil {
			return fmt.Errorf("plugin ownership check failed: %w", err)
		}
	}

	if !v.isInTrustedPath(path) && v.strict {
		return fmt.Errorf("plugin is not in a trusted location")
	}

	if expectedChecksum, exists := v.allowedChecksums[path]; exists {
		actualChecksum, err := v.calculateChecksum(path)
		if err != nil {
			return fmt.Errorf("failed to calculate checksum: %w", err)
		}
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum verification failed")
		}
	}

	if !v.isValidBinary(path) {
		return fmt.Errorf("invalid plugin binary format")
	}

	return nil
}

// AddTrustedPath adds a path to the trusted paths list.
func (v *Validator) AddTrustedPath(path string) {
	v.trustedPaths = append(v.trustedPaths, path)
}

// SetChecksum sets the expected checksum for a plugin.
func (v *Validator) SetChecksum(pluginPath, checksum string) {
	v.allowedChecksums[pluginPath] = checksum
}

func (v *Validator) isInTrustedPath(pluginPath string) bool {
	absPath, err := filepath.Abs(pluginPath)
	if err != nil {
		return false
	}

	for _, trustedPath := range v.trustedPaths {
		trustedAbs, err := filepath.Abs(trustedPath)
		if err != nil {
			continue
		}
		if strings.HasPrefix(absPath, trustedAbs) {
			return true
		}
	}

	return false
}

func (v *Validator) calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// isValidBinary sniffs the file's leading bytes for a recognized
// executable or script header: ELF, Mach-O (32/64-bit, either
// endianness), PE, or a shebang line.
func (v *Validator) isValidBinary(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	header := make([]byte, 4)
	if _, err := file.Read(header); err != nil {
		return false
	}

	if header[0] == 0x7f && header[1] == 'E' && header[2] == 'L' && header[3] == 'F' {
		return true
	}

	if (header[0] == 0xfe && header[1] == 0xed && header[2] == 0xfa && header[3] == 0xce) ||
		(header[0] == 0xfe && header[1] == 0xed && header[2] == 0xfa && header[3] == 0xcf) ||
		(header[0] == 0xce && header[1] == 0xfa && header[2] == 0xed && header[3] == 0xfe) ||
		(header[0] == 0xcf && header[1] == 0xfa && header[2] == 0xed && header[3] == 0xfe) {
		return true
	}

	if header[0] == 'M' && header[1] == 'Z' {
		return true
	}

	if header[0] == '#' && header[1] == '!' {
		return true
	}

	return false
}

// ValidateManifest validates a plugin description file's own permissions
// before Spec.read parses it.
func (v *Validator) ValidateManifest(manifestPath string) error {
	info, err := os.Stat(manifestPath)
	if err != nil {
		return fmt.Errorf("manifest not found: %w", err)
	}

	if v.strict {
		if info.Mode()&0022 != 0 {
			return fmt.Errorf("manifest must not be world-writable in strict mode")
		}
	}

	return nil
}

// SetStrict enables or disables strict mode.
func (v *Validator) SetStrict(strict bool) {
	v.strict = strict
}

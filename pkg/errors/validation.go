package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// registerNameRegex matches OpenQASM 2.0 identifiers: a lowercase letter
// followed by letters, digits or underscores.
var registerNameRegex = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)

// maxRegisterSize bounds a single register declaration. Circuits cap their
// total qubit count lower than this; classical registers only hit this one.
const maxRegisterSize = 1 << 16

// ValidateRegisterName checks a quantum or classical register name against
// the OpenQASM 2.0 identifier rule, capped at 64 bytes.
func ValidateRegisterName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCircuit, "register name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidCircuit, "register name too long (max 64 characters)")
	}
	if !registerNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCircuit, "invalid register name: %q", name)
	}
	return nil
}

// ValidateRegisterSize validates the declared size of a register.
func ValidateRegisterSize(name string, size int) error {
	if size <= 0 {
		return New(ErrCodeInvalidCircuit, "register %s must have a positive size, got %d", name, size)
	}
	if size > maxRegisterSize {
		return New(ErrCodeInvalidCircuit, "register %s too large (max %d)", name, maxRegisterSize)
	}
	return nil
}

// ValidatePath rejects circuit, coupling and config paths that are empty,
// longer than 500 bytes, padded with spaces or hold control characters.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path cannot start or end with whitespace")
	}

	return nil
}

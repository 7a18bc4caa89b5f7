package compliance

import (
	"fmt"
	"strings"
)

// Mode selects how strictly key material is checked.
//
// Lenient accepts any structurally valid input. Strict additionally rejects
// input that is well-formed but not what a conforming RSA producer emits:
// non-zero private key versions, foreign algorithm identifiers, padded bit
// strings and non-canonical DER.
type Mode int

const (
	Lenient Mode = iota
	Strict
)

func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "lenient" or "strict" (case-insensitive). The empty string
// selects Lenient.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown compliance mode %q (want lenient or strict)", s)
	}
}

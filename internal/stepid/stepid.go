// Package stepid generates the random identifiers that name step directories.
package stepid

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the 62-symbol set identifiers are drawn from.
	Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Length is the fixed identifier length.
	Length = 35
)

// Generator produces one identifier per call.
type Generator interface {
	Generate() (string, error)
}

// NanoID draws each character uniformly from Alphabet using crypto/rand.
type NanoID struct{}

func (NanoID) Generate() (string, error) {
	id, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("generating step id: %w", err)
	}
	return id, nil
}

// Default is the generator used when none is configured.
var Default Generator = NanoID{}

// Fixed always returns the same identifier. Tests use it to pin directory names.
type Fixed string

func (f Fixed) Generate() (string, error) { return string(f), nil }

// Sequence returns its identifiers in order and fails once exhausted.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) Generate() (string, error) {
	if s.next >= len(s.IDs) {
		return "", fmt.Errorf("id sequence exhausted after %d ids", len(s.IDs))
	}
	id := s.IDs[s.next]
	s.next++
	return id, nil
}

// Valid reports whether id has the identifier length and uses only Alphabet.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(Alphabet, id[i]) < 0 {
			return false
		}
	}
	return true
}

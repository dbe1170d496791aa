package ordernumber

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet omits I, O, L and Q to avoid misreading.
	Alphabet = "ABCDEFGHJKMNPRSTUVWXYZ0123456789"
	Length   = 12
)

// Generator produces order numbers.
type Generator interface {
	Generate() (string, error)
}

// Random draws numbers from a cryptographically secure nanoid source.
type Random struct{}

// Generate returns a random order number.
func (Random) Generate() (string, error) {
	n, err := gonanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return n, nil
}

// Valid reports whether number has the expected shape.
func Valid(number string) bool {
	if len(number) != Length {
		return false
	}
	for _, r := range number {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

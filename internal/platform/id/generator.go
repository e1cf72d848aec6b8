package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
	defaultLength = 16
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

// NanoIDGenerator produces lowercase alphanumeric nanoids, optionally prefixed.
type NanoIDGenerator struct {
	prefix string
	length int
}

func NewNanoIDGenerator(prefix string) *NanoIDGenerator {
	return &NanoIDGenerator{prefix: prefix, length: defaultLength}
}

func (g *NanoIDGenerator) NewID() (string, error) {
	raw, err := gonanoid.Generate(alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}

	return g.prefix + raw, nil
}

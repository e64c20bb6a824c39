package links

import (
	"crypto/rand"
	"math/big"
)

const (
	generatedCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	GeneratedCodeLength   = 6

	defaultMaxGenerateAttempts = 10
)

// CryptoCodeSource draws lowercase alphanumeric codes from crypto/rand.
type CryptoCodeSource struct{}

func NewCryptoCodeSource() *CryptoCodeSource { return &CryptoCodeSource{} }

func (s *CryptoCodeSource) Generate(length int) (string, error) {
	if length <= 0 {
		length = GeneratedCodeLength
	}

	base := big.NewInt(int64(len(generatedCodeAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		out[i] = generatedCodeAlphabet[n.Int64()]
	}

	return string(out), nil
}

type codeSet map[string]struct{}

func (c codeSet) has(code string) bool {
	_, ok := c[code]
	return ok
}

func (c codeSet) add(code string) { c[code] = struct{}{} }

// CodeGenerator assigns shortcodes that are free in both the store snapshot
// and the codes already handed out in the current batch.
type CodeGenerator struct {
	source      CodeSource
	length      int
	maxAttempts int
}

func NewCodeGenerator(source CodeSource, maxAttempts int) *CodeGenerator {
	if source == nil {
		source = NewCryptoCodeSource()
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxGenerateAttempts
	}
	return &CodeGenerator{
		source:      source,
		length:      GeneratedCodeLength,
		maxAttempts: maxAttempts,
	}
}

// Assign returns requested when it is free, or a generated code when requested
// is empty. existing and pending are only read.
func (g *CodeGenerator) Assign(requested string, existing, pending codeSet) (string, error) {
	if requested != "" {
		if existing.has(requested) || pending.has(requested) {
			return "", ErrShortcodeCollision
		}
		return requested, nil
	}

	for range g.maxAttempts {
		code, err := g.source.Generate(g.length)
		if err != nil {
			return "", err
		}
		if existing.has(code) || pending.has(code) {
			continue
		}
		return code, nil
	}

	return "", ErrCodeSpaceExhausted
}

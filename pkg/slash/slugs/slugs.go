// Package slugs derives short slugs from destination URLs.
//
// A slug is the first Length bytes of the URL's SHA-256 digest mapped onto a
// base62 alphabet, so the same URL always yields the same first candidate.
// Collisions are resolved by salting the URL and hashing again.
package slugs

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/slashurl/slash/pkg/slash/apperr"
)

const (
	Alphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	Length      = 8
	MaxAttempts = 5
	saltBytes   = 8
)

// ErrExhausted is wrapped by Unique when every attempt collided.
var ErrExhausted = errors.New("could not generate a unique slug")

// TakenFunc reports whether slug is already stored.
type TakenFunc func(ctx context.Context, slug string) (bool, error)

// Generate returns the deterministic slug for url.
func Generate(url string) string {
	sum := sha256.Sum256([]byte(url))
	b := make([]byte, Length)
	for i := range b {
		b[i] = Alphabet[int(sum[i])%len(Alphabet)]
	}
	return string(b)
}

// Generator produces collision-free slugs. The zero value is usable.
type Generator struct {
	// Salt returns a fresh salt for retries. Defaults to random hex.
	Salt func() (string, error)
}

// NewGenerator returns a generator using crypto/rand salts.
func NewGenerator() *Generator {
	return &Generator{Salt: randomSalt}
}

// Unique returns Generate(url) if it is free, otherwise salted variants, giving
// up with an internal error after MaxAttempts candidates.
func (g *Generator) Unique(ctx context.Context, url string, taken TakenFunc) (string, error) {
	salt := g.Salt
	if salt == nil {
		salt = randomSalt
	}

	candidate := Generate(url)
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", apperr.Internal("check slug availability", err)
		}
		if !exists {
			return candidate, nil
		}
		if attempt == MaxAttempts {
			break
		}

		s, err := salt()
		if err != nil {
			return "", apperr.Internal("generate slug salt", err)
		}
		candidate = Generate(url + s)
	}

	return "", apperr.Internal("generate slug", ErrExhausted)
}

func randomSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Package codename produces unique two-word codenames for new gadgets.
package codename

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is returned when every candidate name is already taken.
var ErrExhausted = errors.New("no unused codename left")

// Generator proposes a codename that does not collide with the existing ones.
type Generator interface {
	Generate(ctx context.Context, existing []string) (string, error)
}

var (
	adjectives = []string{
		"Silent", "Crimson", "Phantom", "Iron", "Midnight", "Golden", "Shadow", "Electric",
		"Frozen", "Hidden", "Obsidian", "Scarlet", "Velvet", "Silver", "Thunder", "Arctic",
	}
	nouns = []string{
		"Falcon", "Viper", "Nightingale", "Kraken", "Mongoose", "Raven", "Jaguar", "Cobra",
		"Sparrow", "Panther", "Wolf", "Hawk", "Scorpion", "Lynx", "Owl", "Mantis",
	}
)

// WordList combines a fixed adjective and noun list. Candidates are walked in
// a fixed order starting at an offset derived from the number of existing
// names, so results are deterministic for a given inventory.
type WordList struct {
	adjectives []string
	nouns      []string
}

func NewWordList() *WordList {
	return &WordList{adjectives: adjectives, nouns: nouns}
}

func (wl *WordList) Generate(ctx context.Context, existing []string) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[normalise(name)] = struct{}{}
	}

	total := len(wl.adjectives) * len(wl.nouns)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n := (len(existing) + i) % total
		// stride through nouns first so consecutive names differ in both words
		candidate := fmt.Sprintf("%s %s", wl.adjectives[n%len(wl.adjectives)], wl.nouns[(n/len(wl.adjectives)+n)%len(wl.nouns)])
		if _, ok := taken[normalise(candidate)]; !ok {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

func normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

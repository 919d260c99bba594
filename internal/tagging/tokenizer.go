// Package tagging turns post text into normalized tags and adjacent-tag
// bi-grams.
package tagging

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultAlphabet is the character class kept by the tokenizer: Latin and
// Cyrillic letters, digits and space.
const DefaultAlphabet = "a-zA-Zа-яА-ЯёЁ0-9 "

var htmlEscapeRe = regexp.MustCompile(`&[#a-zA-Z0-9]*?;`)

// Tokenizer splits text into case-folded words. It is safe for concurrent use.
type Tokenizer struct {
	clear *regexp.Regexp
}

// NewTokenizer builds a tokenizer that keeps only the characters of alphabet,
// given as the body of a regular expression character class.
func NewTokenizer(alphabet string) (*Tokenizer, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	re, err := regexp.Compile("[^" + alphabet + "]")
	if err != nil {
		return nil, fmt.Errorf("compile alphabet %q: %w", alphabet, err)
	}
	return &Tokenizer{clear: re}, nil
}

// MustTokenizer is NewTokenizer that panics on an invalid alphabet.
func MustTokenizer(alphabet string) *Tokenizer {
	t, err := NewTokenizer(alphabet)
	if err != nil {
		panic(err)
	}
	return t
}

// Words returns the words of text in order. Character references become
// spaces, characters outside the alphabet become spaces, the rest is
// case-folded and split on whitespace.
func (t *Tokenizer) Words(text string) []string {
	text = htmlEscapeRe.ReplaceAllString(text, " ")
	text = t.clear.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	// cases.Caser keeps state between calls, so each call gets its own.
	return strings.Fields(cases.Fold().String(text))
}

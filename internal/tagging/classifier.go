package tagging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/heartmarshall/feedtags-backend/internal/lang"
)

var (
	onlyCyrillicRe = regexp.MustCompile(`^[а-яА-ЯёЁ]*$`)
	onlyLatinRe    = regexp.MustCompile(`^[a-zA-Z]*$`)
)

// Classifier maps a surface word to its canonical tag.
//
// Cyrillic words go through the morphological analyzer, Latin words through
// the stemmer, everything else through a length-based truncation rule.
// The engines are shared, so one Classifier may serve many builders.
type Classifier struct {
	morph   lang.Analyzer
	stemmer lang.Stemmer
	log     *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(logger *slog.Logger, morph lang.Analyzer, stemmer lang.Stemmer) *Classifier {
	return &Classifier{
		morph:   morph,
		stemmer: stemmer,
		log:     logger.With("component", "classifier"),
	}
}

// Classify returns the tag for word, or "" when the word must be dropped.
// Engine errors and panics are logged and never escape.
func (c *Classifier) Classify(word string) (tag string) {
	word = cases.Fold().String(strings.TrimSpace(word))
	if word == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("classify word panicked", slog.String("word", word), slog.Any("panic", r))
			tag = ""
		}
	}()

	tag, err := c.classify(word)
	if err != nil {
		c.log.Warn("classify word", slog.String("word", word), slog.String("error", err.Error()))
		return ""
	}
	return tag
}

func (c *Classifier) classify(word string) (string, error) {
	switch {
	case onlyCyrillicRe.MatchString(word):
		parses, err := c.morph.Parse(word)
		if err != nil {
			return "", fmt.Errorf("morph parse: %w", err)
		}
		if len(parses) == 0 {
			return word, nil
		}
		return parses[0].NormalForm, nil

	case onlyLatinRe.MatchString(word):
		return c.stemmer.Stem(word), nil
	}

	return truncate(word), nil
}

// truncate applies the generic rule for mixed or numeric tokens.
func truncate(word string) string {
	n := utf8.RuneCountInString(word)
	if n < 4 || isNumeric(word) {
		return word
	}

	runes := []rune(word)
	switch {
	case n <= 5:
		return string(runes[:n-1])
	case n == 6:
		return string(runes[:n-2])
	default:
		return string(runes[:n-3])
	}
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return word != ""
}

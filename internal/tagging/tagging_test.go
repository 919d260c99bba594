package tagging

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/feedtags-backend/internal/lang"
)

const referenceLexicon = "тестировали\tтестировать\n" +
	"тестировала\tтестировать\n" +
	"тестировал\tтестировать\n" +
	"оно\tоно\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedAnalyzer wraps a lexicon and fails or panics on chosen words.
type scriptedAnalyzer struct {
	base   lang.Analyzer
	fail   map[string]bool
	panics map[string]bool
}

func (a scriptedAnalyzer) Parse(word string) ([]lang.Parse, error) {
	if a.panics[word] {
		panic("analyzer state corrupted")
	}
	if a.fail[word] {
		return nil, errors.New("analyzer failure")
	}
	return a.base.Parse(word)
}

func newTestClassifier(t *testing.T, fail, panics []string) *Classifier {
	t.Helper()

	lex, err := lang.LoadLexicon(strings.NewReader(referenceLexicon))
	require.NoError(t, err)

	a := scriptedAnalyzer{base: lex, fail: map[string]bool{}, panics: map[string]bool{}}
	for _, w := range fail {
		a.fail[w] = true
	}
	for _, w := range panics {
		a.panics[w] = true
	}
	return NewClassifier(testLogger(), a, lang.EnglishStemmer{})
}

func newTestBuilder(t *testing.T, fail ...string) *Builder {
	t.Helper()
	return NewBuilder(MustTokenizer(DefaultAlphabet), newTestClassifier(t, fail, nil))
}

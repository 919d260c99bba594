package lang

import (
	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/russian"
)

// Stemmer strips inflectional suffixes from a word.
type Stemmer interface {
	Stem(word string) string
}

// EnglishStemmer applies the Snowball English (Porter2) algorithm to every
// word, stop words included.
type EnglishStemmer struct{}

func (EnglishStemmer) Stem(word string) string {
	return english.Stem(word, true)
}

// SnowballPredictor guesses the normal form of an unknown Russian word by
// stripping its suffix with the Snowball Russian stemmer.
type SnowballPredictor struct{}

func (SnowballPredictor) Predict(word string) (Parse, bool) {
	if word == "" {
		return Parse{}, false
	}
	return Parse{
		Word:       word,
		NormalForm: russian.Stem(word, true),
		Predicted:  true,
	}, true
}

// Package lang provides the word normalization engines used by the tagger:
// a dictionary-backed morphological analyzer for Cyrillic words and a
// Snowball stemmer for Latin words.
//
// Every engine in this package is safe for concurrent use once constructed,
// so a single instance is shared by all tag builders of the process.
package lang

// Parse is one candidate analysis of a surface word.
type Parse struct {
	Word       string
	NormalForm string
	// Grammemes is the optional grammar tag from the dictionary, e.g. "VERB,perf past".
	Grammemes string
	// Predicted is true when the candidate did not come from the dictionary.
	Predicted bool
}

// Analyzer returns candidate analyses of a word, most probable first.
// An empty result with a nil error means the word is unknown.
type Analyzer interface {
	Parse(word string) ([]Parse, error)
}

// Predictor guesses a normal form for a word missing from the dictionary.
type Predictor interface {
	Predict(word string) (Parse, bool)
}

// Predicting consults the base analyzer first and falls back to the predictor
// only when the base has no candidate.
type Predicting struct {
	base      Analyzer
	predictor Predictor
}

// NewPredicting wraps base with a fallback predictor.
func NewPredicting(base Analyzer, predictor Predictor) *Predicting {
	return &Predicting{base: base, predictor: predictor}
}

func (p *Predicting) Parse(word string) ([]Parse, error) {
	parses, err := p.base.Parse(word)
	if err != nil {
		return nil, err
	}
	if len(parses) > 0 {
		return parses, nil
	}
	if guess, ok := p.predictor.Predict(word); ok {
		return []Parse{guess}, nil
	}
	return nil, nil
}

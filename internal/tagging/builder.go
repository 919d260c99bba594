package tagging

import (
	"maps"
	"slices"
)

type set map[string]struct{}

func (s set) add(v string) { s[v] = struct{}{} }

func (s set) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Builder accumulates tags and bi-grams for one document.
//
// A Builder is not safe for concurrent use. Call Reset before reusing it for
// another document.
type Builder struct {
	tokenizer  *Tokenizer
	classifier *Classifier

	tags        set
	words       map[string]set
	biGrams     map[string][]string
	biGramWords map[string]set
}

// NewBuilder creates an empty Builder backed by shared tokenizer and classifier.
func NewBuilder(tokenizer *Tokenizer, classifier *Classifier) *Builder {
	b := &Builder{tokenizer: tokenizer, classifier: classifier}
	b.Reset()
	return b
}

// Reset clears all accumulators.
func (b *Builder) Reset() {
	b.tags = set{}
	b.words = map[string]set{}
	b.biGrams = map[string][]string{}
	b.biGramWords = map[string]set{}
}

// ExtractTags adds the tags of every word of text.
func (b *Builder) ExtractTags(text string) {
	for _, word := range b.tokenizer.Words(text) {
		if tag := b.classifier.Classify(word); tag != "" {
			b.addTag(tag, word)
		}
	}
}

// ExtractBiGrams adds a bi-gram for every pair of adjacent classified words.
//
// The cursor only advances past words with a non-empty tag. When the first
// word has no tag the pair key starts with a space.
func (b *Builder) ExtractBiGrams(text string) {
	words := b.tokenizer.Words(text)
	if len(words) == 0 {
		return
	}

	prevWord := words[0]
	prevTag := b.classifier.Classify(prevWord)
	for _, word := range words[1:] {
		tag := b.classifier.Classify(word)
		if tag == "" {
			continue
		}
		b.addBiGram(prevTag, tag, prevWord, word)
		prevWord, prevTag = word, tag
	}
}

// ExtractTagsAndBiGrams does ExtractTags and ExtractBiGrams in one pass.
// The last pending tag is committed after the loop.
func (b *Builder) ExtractTagsAndBiGrams(text string) {
	words := b.tokenizer.Words(text)
	if len(words) == 0 {
		return
	}

	prevWord := words[0]
	prevTag := b.classifier.Classify(prevWord)
	for _, word := range words[1:] {
		if prevTag != "" {
			b.addTag(prevTag, prevWord)
		}
		tag := b.classifier.Classify(word)
		if tag == "" {
			continue
		}
		b.addBiGram(prevTag, tag, prevWord, word)
		prevWord, prevTag = word, tag
	}
	if prevTag != "" {
		b.addTag(prevTag, prevWord)
	}
}

func (b *Builder) addTag(tag, word string) {
	b.tags.add(tag)
	if b.words[tag] == nil {
		b.words[tag] = set{}
	}
	b.words[tag].add(word)
}

func (b *Builder) addBiGram(prevTag, tag, prevWord, word string) {
	key := prevTag + " " + tag
	if _, ok := b.biGrams[key]; !ok {
		if prevTag == tag {
			b.biGrams[key] = []string{tag}
		} else {
			b.biGrams[key] = []string{prevTag, tag}
		}
	}
	if b.biGramWords[key] == nil {
		b.biGramWords[key] = set{}
	}
	b.biGramWords[key].add(prevWord)
	b.biGramWords[key].add(word)
}

// Tags returns the sorted tag set.
func (b *Builder) Tags() []string {
	return b.tags.sorted()
}

// Words returns the sorted surface words grouped by tag.
func (b *Builder) Words() map[string][]string {
	return groups(b.words)
}

// BiGramKeys returns the sorted bi-gram keys.
func (b *Builder) BiGramKeys() []string {
	return slices.Sorted(maps.Keys(b.biGrams))
}

// BiGrams returns the constituent tags of every bi-gram in document order.
func (b *Builder) BiGrams() map[string][]string {
	out := make(map[string][]string, len(b.biGrams))
	for k, v := range b.biGrams {
		out[k] = slices.Clone(v)
	}
	return out
}

// BiGramWords returns the sorted surface words grouped by bi-gram.
func (b *Builder) BiGramWords() map[string][]string {
	return groups(b.biGramWords)
}

func groups(in map[string]set) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = v.sorted()
	}
	return out
}

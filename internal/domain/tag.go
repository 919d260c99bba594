package domain

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Tag is the per-owner aggregate of one canonical word form.
type Tag struct {
	OwnerID     uuid.UUID
	Tag         string
	PostsCount  int
	UnreadCount int
	Temperature float64
	Processing  ProcessingState
}

// BiGram is the per-owner aggregate of two adjacent canonical tags.
// Tag holds the key ("first second"); Tags holds the distinct constituents.
type BiGram struct {
	OwnerID     uuid.UUID
	Tag         string
	Tags        []string
	PostsCount  int
	UnreadCount int
	Temperature float64
}

// LetterItem is the rollup of all tags sharing one leading character.
type LetterItem struct {
	Letter      string
	UnreadCount int
	LocalURL    string
}

// Letters is the single per-owner letter rollup document.
type Letters struct {
	OwnerID uuid.UUID
	Letters map[string]LetterItem
}

// Sorted returns the items ordered alphabetically by letter.
func (l Letters) Sorted() []LetterItem {
	items := make([]LetterItem, 0, len(l.Letters))
	for _, item := range l.Letters {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Letter < items[j].Letter })
	return items
}

// ToList returns the alphabetical item list, optionally keeping only
// letters with unread tags.
func (l Letters) ToList(onlyUnread bool) []LetterItem {
	sorted := l.Sorted()
	if !onlyUnread {
		return sorted
	}
	result := make([]LetterItem, 0, len(sorted))
	for _, item := range sorted {
		if item.UnreadCount > 0 {
			result = append(result, item)
		}
	}
	return result
}

// FirstLetter returns the leading character of a tag, or "" for an empty tag.
func FirstLetter(tag string) string {
	r, size := utf8.DecodeRuneInString(tag)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return tag[:size]
}

// BiGramTags splits a bi-gram key into its distinct constituent tags in
// document order. Tags never contain spaces, so the first space separates
// the pair.
func BiGramTags(key string) []string {
	first, second, ok := strings.Cut(key, " ")
	if !ok {
		return []string{key}
	}
	if first == second {
		return []string{first}
	}
	return []string{first, second}
}

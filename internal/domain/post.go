package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a feed item produced by the downloader. Tags and BiGrams are
// written once by the ingest worker; afterwards only Read changes.
type Post struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	FeedID     string
	CategoryID string
	Title      string
	Content    string
	URL        string
	Read       bool
	Favorite   bool
	Tags       []string
	BiGrams    []string
	Processing ProcessingState
	CreatedAt  time.Time
}

// Occurrences counts, per key, how many posts of a batch carry the key.
type Occurrences struct {
	Tags    map[string]int
	BiGrams map[string]int
}

// IsEmpty reports whether there is nothing to apply.
func (o Occurrences) IsEmpty() bool {
	return len(o.Tags) == 0 && len(o.BiGrams) == 0
}

// CountOccurrences sums tag and bi-gram occurrences over the given posts.
func CountOccurrences(posts []Post) Occurrences {
	occ := Occurrences{
		Tags:    make(map[string]int),
		BiGrams: make(map[string]int),
	}
	for _, p := range posts {
		for _, tag := range p.Tags {
			occ.Tags[tag]++
		}
		for _, bg := range p.BiGrams {
			occ.BiGrams[bg]++
		}
	}
	return occ
}

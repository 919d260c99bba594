package domain

// QueryOptions filters, sorts and pages aggregate listings.
// Zero values mean "no filter".
type QueryOptions struct {
	// Keys restricts the result to exact tag / bi-gram keys.
	Keys []string

	// Tags restricts bi-grams to those whose constituents contain every
	// listed tag. Ignored by the tag and letter stores.
	Tags []string

	// Pattern is a case-insensitive regular expression matched against the key.
	Pattern string

	// Prefix keeps keys that start with the given string.
	Prefix string

	// OnlyUnread keeps records with unread_count > 0.
	OnlyUnread bool

	// SortMode defaults to SortByUnread when OnlyUnread is set, SortByPosts otherwise.
	SortMode SortMode

	Offset uint
	Limit  uint
}

const (
	DefaultQueryLimit uint = 50
	MaxQueryLimit     uint = 500
)

// Normalized returns a copy with the default sort mode and limit applied.
func (o QueryOptions) Normalized() QueryOptions {
	if !o.SortMode.IsValid() {
		if o.OnlyUnread {
			o.SortMode = SortByUnread
		} else {
			o.SortMode = SortByPosts
		}
	}
	if o.Limit == 0 {
		o.Limit = DefaultQueryLimit
	}
	if o.Limit > MaxQueryLimit {
		o.Limit = MaxQueryLimit
	}
	return o
}

// SortColumn returns the counter column the sort mode orders by (descending).
func (m SortMode) SortColumn() string {
	switch m {
	case SortByUnread:
		return "unread_count"
	case SortByTemperature:
		return "temperature"
	default:
		return "posts_count"
	}
}

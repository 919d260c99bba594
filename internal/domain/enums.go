package domain

// ProcessingState marks whether a post or tag is being worked on by a
// background worker.
type ProcessingState string

const (
	ProcessingIdle       ProcessingState = "IDLE"
	ProcessingInProgress ProcessingState = "PROCESSING"
	ProcessingDone       ProcessingState = "DONE"
)

func (s ProcessingState) String() string { return string(s) }

func (s ProcessingState) IsValid() bool {
	switch s {
	case ProcessingIdle, ProcessingInProgress, ProcessingDone:
		return true
	}
	return false
}

// SortMode selects the ordering of aggregate listings.
type SortMode string

const (
	SortByPosts       SortMode = "BY_POSTS"
	SortByUnread      SortMode = "BY_UNREAD"
	SortByTemperature SortMode = "BY_TEMPERATURE"
)

func (m SortMode) String() string { return string(m) }

func (m SortMode) IsValid() bool {
	switch m {
	case SortByPosts, SortByUnread, SortByTemperature:
		return true
	}
	return false
}

// ParseSortMode maps the lower-case API spelling ("posts", "unread", "hot")
// to a SortMode. An empty string yields an empty mode (use the default).
func ParseSortMode(s string) (SortMode, bool) {
	switch s {
	case "":
		return "", true
	case "posts", string(SortByPosts):
		return SortByPosts, true
	case "unread", string(SortByUnread):
		return SortByUnread, true
	case "hot", "temperature", string(SortByTemperature):
		return SortByTemperature, true
	}
	return "", false
}

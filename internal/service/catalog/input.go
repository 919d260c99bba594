package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

const (
	maxPatternLength = 200
	maxKeyLength     = 200
	maxFilterTags    = 20
)

// ListInput holds the filters of an aggregate listing.
type ListInput struct {
	Pattern    string
	Prefix     string
	Tags       []string
	OnlyUnread bool
	Sort       string
	Offset     uint
	Limit      uint
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if utf8.RuneCountInString(i.Pattern) > maxPatternLength {
		errs = append(errs, domain.FieldError{Field: "pattern", Message: fmt.Sprintf("max %d characters", maxPatternLength)})
	}
	if utf8.RuneCountInString(i.Prefix) > maxKeyLength {
		errs = append(errs, domain.FieldError{Field: "prefix", Message: fmt.Sprintf("max %d characters", maxKeyLength)})
	}
	if len(i.Tags) > maxFilterTags {
		errs = append(errs, domain.FieldError{Field: "tags", Message: fmt.Sprintf("max %d items", maxFilterTags)})
	}
	for _, t := range i.Tags {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, domain.FieldError{Field: "tags", Message: "must not contain empty tags"})
			break
		}
	}
	if _, ok := domain.ParseSortMode(i.Sort); !ok {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "must be one of posts, unread, hot"})
	}
	if i.Limit > domain.MaxQueryLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", domain.MaxQueryLimit)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// options converts a validated input to normalized store options.
func (i ListInput) options() domain.QueryOptions {
	mode, _ := domain.ParseSortMode(i.Sort)
	tags := make([]string, 0, len(i.Tags))
	for _, t := range i.Tags {
		tags = append(tags, strings.TrimSpace(t))
	}
	return domain.QueryOptions{
		Tags:       tags,
		Pattern:    i.Pattern,
		Prefix:     i.Prefix,
		OnlyUnread: i.OnlyUnread,
		SortMode:   mode,
		Offset:     i.Offset,
		Limit:      i.Limit,
	}.Normalized()
}

func validateKey(field, key string) error {
	if strings.TrimSpace(key) == "" {
		return domain.NewValidationError(field, "required")
	}
	if utf8.RuneCountInString(key) > maxKeyLength {
		return domain.NewValidationError(field, fmt.Sprintf("max %d characters", maxKeyLength))
	}
	return nil
}

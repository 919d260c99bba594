package postgres

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
)

// Builder is the squirrel statement builder with PostgreSQL placeholders.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// FilterAggregates restricts a select over an aggregate table (key column
// "tag") to one owner and the filters of opts. Bi-gram constituent filtering
// is left to the caller.
func FilterAggregates(sb sq.SelectBuilder, owner uuid.UUID, opts domain.QueryOptions) sq.SelectBuilder {
	sb = sb.Where(sq.Eq{"owner_id": owner})
	if len(opts.Keys) > 0 {
		sb = sb.Where(sq.Eq{"tag": opts.Keys})
	}
	if opts.Pattern != "" {
		sb = sb.Where("tag ~* ?", opts.Pattern)
	}
	if opts.Prefix != "" {
		sb = sb.Where("starts_with(tag, ?)", opts.Prefix)
	}
	if opts.OnlyUnread {
		sb = sb.Where(sq.Gt{"unread_count": 0})
	}
	return sb
}

// PageAggregates orders by the sort mode counter (descending, tie-break by
// key) and applies the page window. opts must be normalized.
func PageAggregates(sb sq.SelectBuilder, opts domain.QueryOptions) sq.SelectBuilder {
	return sb.
		OrderBy(opts.SortMode.SortColumn()+" DESC", "tag ASC").
		Offset(uint64(opts.Offset)).
		Limit(uint64(opts.Limit))
}

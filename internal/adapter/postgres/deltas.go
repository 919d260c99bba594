package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// ApplyUnreadDeltas runs an unnest-based counter update and returns the keys
// it changed. stmt must take $1 owner, $2 text[] keys, $3 int[] deltas and
// return the updated key column. Keys missing from the table or whose update
// would break a counter bound are simply absent from the result.
func ApplyUnreadDeltas(ctx context.Context, q Querier, stmt string, owner uuid.UUID, deltas map[string]int) ([]string, error) {
	if len(deltas) == 0 {
		return []string{}, nil
	}

	keys := slices.Sorted(maps.Keys(deltas))
	values := make([]int32, len(keys))
	for i, k := range keys {
		values[i] = int32(deltas[k])
	}

	rows, err := q.Query(ctx, stmt, owner, keys, values)
	if err != nil {
		return nil, fmt.Errorf("apply deltas: %w", err)
	}
	defer rows.Close()

	applied := make([]string, 0, len(keys))
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan applied key: %w", err)
		}
		applied = append(applied, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("apply deltas: %w", err)
	}

	return applied, nil
}

// SkippedKeys returns the keys of deltas not present in applied, sorted.
func SkippedKeys(deltas map[string]int, applied []string) []string {
	done := make(map[string]struct{}, len(applied))
	for _, k := range applied {
		done[k] = struct{}{}
	}
	var skipped []string
	for _, k := range slices.Sorted(maps.Keys(deltas)) {
		if _, ok := done[k]; !ok {
			skipped = append(skipped, k)
		}
	}
	return skipped
}

// EnsureIndexes runs idempotent DDL statements. Failures are logged as
// warnings and never returned.
func EnsureIndexes(ctx context.Context, q Querier, log *slog.Logger, stmts ...string) {
	for _, stmt := range stmts {
		if _, err := q.Exec(ctx, stmt); err != nil {
			log.WarnContext(ctx, "ensure index", slog.String("stmt", stmt), slog.String("error", err.Error()))
		}
	}
}

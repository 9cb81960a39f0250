package authz

import (
	"context"

	"lakegate/internal/domain"
)

// KeyFunc supplies the entry-specific bindings for one element of a result
// set, e.g. each catalog entry supplies its own id for CATALOG while the
// metastore binding stays ambient.
type KeyFunc[E any] func(E) Bindings

// Filter applies the expression per entry and keeps entries that evaluate
// true, preserving input order. Ambient request-level bindings are merged
// with each entry's own bindings before evaluation.
//
// This is intentionally a post-fetch filter rather than a query predicate:
// it costs one evaluation per row but keeps the grant model out of the
// metadata store's query engine. When the input page was cut by a
// pre-filter cursor, the filtered page may hold fewer items than the page
// size even though more authorized items exist beyond the cursor.
func Filter[E any](ctx context.Context, e *Evaluator, principal *domain.Principal, expr Expression, ambient Bindings, entries []E, keyFn KeyFunc[E]) ([]E, error) {
	out := make([]E, 0, len(entries))
	for _, entry := range entries {
		ok, err := e.Evaluate(ctx, principal, expr, ambient.Merge(keyFn(entry)))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/errs"
)

// batchConcurrency is the hard bound on simultaneous export retrievals.
// The upstream enforces its own rate limits; exceeding this risks
// cascading 429s that consume retry budget across unrelated queries.
// It is a resource policy, not a tunable.
const batchConcurrency = 3

// BatchSearch executes all queries under the concurrency gate. Each
// query's failure is isolated: it is reported in its slot and does not
// abort sibling queries. When deduplication is requested, the merged
// set collapses on ticket identity with the first occurrence winning,
// ordered by the owning query's position in the input list.
func (s *Service) BatchSearch(ctx context.Context, queries []string, opts BatchOptions) (*BatchResult, error) {
	if len(queries) == 0 {
		return nil, errs.Validation("queries", "at least one query required")
	}
	for _, query := range queries {
		if query == "" {
			return nil, errs.Validation("queries", "queries must not be empty")
		}
	}
	if opts.LimitPerQuery <= 0 {
		opts.LimitPerQuery = 100
	}

	results := make([]QueryResult, len(queries))
	started := time.Now()

	var group errgroup.Group
	group.SetLimit(batchConcurrency)
	for i, query := range queries {
		group.Go(func() error {
			queryStart := time.Now()
			set, err := s.retriever.SearchExport(ctx, query, ExportOptions{
				SortBy:     opts.SortBy,
				SortOrder:  opts.SortOrder,
				MaxResults: opts.LimitPerQuery,
			})
			elapsed := time.Since(queryStart).Milliseconds()
			if err != nil {
				s.logger.Warn("batch query failed", "query", query, "error", err)
				results[i] = QueryResult{Query: query, Error: err.Error(), ExecutionTimeMS: elapsed}
				return nil
			}
			results[i] = QueryResult{
				Query:           query,
				Tickets:         set.Tickets,
				Count:           set.Count,
				ExecutionTimeMS: elapsed,
			}
			return nil
		})
	}
	// Worker funcs never return errors; failures live in their slots.
	_ = group.Wait()

	failed := 0
	total := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
			continue
		}
		total += res.Count
	}

	batch := &BatchResult{
		RunID:           uuid.NewString(),
		QueriesExecuted: len(queries),
		QueriesFailed:   failed,
		Results:         results,
		UniqueTickets:   total,
		TotalTimeMS:     time.Since(started).Milliseconds(),
		Deduplicated:    opts.Deduplicate,
	}

	if opts.Deduplicate {
		seen := make(map[int64]struct{})
		var merged []ticket.Ticket
		for _, res := range results {
			for _, tk := range res.Tickets {
				if _, dup := seen[tk.ID]; dup {
					continue
				}
				seen[tk.ID] = struct{}{}
				merged = append(merged, tk)
			}
		}
		batch.Merged = merged
		batch.UniqueTickets = len(merged)
	}

	return batch, nil
}

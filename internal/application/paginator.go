package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// PageFunc fetches one page of raw records: at most max of them, starting at
// offset.
type PageFunc func(ctx context.Context, offset, max int) ([]json.RawMessage, error)

// Paginate walks a paginated resource from start, collecting pages until a
// short page signals the terminal one or the per-invocation page cap is hit.
// A full final page always costs one extra fetch: a dataset that is an exact
// multiple of the page size terminates on a trailing empty page.
//
// Pages are fetched strictly in increasing offset order with cfg.PageDelay
// slept between successful fetches. Any fetch error aborts the remaining
// pagination and propagates unmodified.
func Paginate(ctx context.Context, fetch PageFunc, start int, cfg SyncConfig, logger zerolog.Logger) ([]json.RawMessage, error) {
	var records []json.RawMessage
	offset := start

	for page := 0; page < cfg.PagesPerChunk; page++ {
		if page > 0 {
			if err := sleep(ctx, cfg.PageDelay); err != nil {
				return nil, err
			}
		}

		batch, err := fetch(ctx, offset, cfg.PageSize)
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)

		logger.Debug().
			Int("offset", offset).
			Int("page_records", len(batch)).
			Int("total_records", len(records)).
			Msg("Fetched page")

		if len(batch) < cfg.PageSize {
			break
		}
		offset += cfg.PageSize
	}

	return records, nil
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

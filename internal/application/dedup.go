package application

import "github.com/rs/zerolog"

// Dedupe returns a new slice retaining only the first occurrence per key
// value, preserving the relative order of kept items. Collisions are logged,
// never raised: a later record with an already-seen key is dropped silently
// from the batch but loudly in the log. Records with an empty key are always
// kept; an absent key is not a collision.
func Dedupe[E any](items []E, key func(E) string, logger zerolog.Logger) []E {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	kept := make([]E, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			kept = append(kept, item)
			continue
		}
		if _, dup := seen[k]; dup {
			logger.Warn().Str("key", k).Msg("Dropping duplicate record from batch")
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

package extract

import "go.uber.org/zap"

// LastWins keeps the final occurrence of each key. Save files can repeat
// an entity when the game re-exports it mid-save; the later snapshot is
// the authoritative one. Each key keeps its first-seen position so output
// order stays deterministic.
func LastWins[T any, K comparable](rows []T, key func(T) K) []T {
	at := make(map[K]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if i, dup := at[k]; dup {
			out[i] = row
			continue
		}
		at[k] = len(out)
		out = append(out, row)
	}
	if removed := len(rows) - len(out); removed > 0 {
		zap.L().Debug("deduplicated rows", zap.Int("removed", removed), zap.String("strategy", "last-wins"))
	}
	return out
}

// FirstWins keeps the first occurrence of each key, preserving input
// order.
func FirstWins[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	if removed := len(rows) - len(out); removed > 0 {
		zap.L().Debug("deduplicated rows", zap.Int("removed", removed), zap.String("strategy", "first-wins"))
	}
	return out
}

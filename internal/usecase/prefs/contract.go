package prefs

import "context"

// HistoryReader reads a user's recent search queries, newest first.
type HistoryReader interface {
	Recent(ctx context.Context, userID string, n int) ([]string, error)
}

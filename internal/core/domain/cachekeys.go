package domain

import "github.com/google/uuid"

// LendHistoryKey is the cache key for a user's lend-side transaction list.
func LendHistoryKey(userID uuid.UUID) string {
	return "history:lend:" + userID.String()
}

// BorrowHistoryKey is the cache key for a user's borrow-side transaction list.
func BorrowHistoryKey(userID uuid.UUID) string {
	return "history:borrow:" + userID.String()
}

// HistoryKeysFor returns every history cache key touched by a write involving
// the given participants. Both sides of both users go stale together.
func HistoryKeysFor(userIDs ...uuid.UUID) []string {
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, LendHistoryKey(id), BorrowHistoryKey(id))
	}
	return keys
}

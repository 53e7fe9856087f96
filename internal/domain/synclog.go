package domain

import "time"

// SyncType identifies what kind of data a sync run pulls.
type SyncType string

const (
	SyncTypeProducts  SyncType = "products"
	SyncTypeOrders    SyncType = "orders"
	SyncTypeInventory SyncType = "inventory"
)

// ValidSyncType reports whether s names a known sync kind.
func ValidSyncType(s SyncType) bool {
	switch s {
	case SyncTypeProducts, SyncTypeOrders, SyncTypeInventory:
		return true
	}
	return false
}

// SyncLogStatus is the recorded outcome of a sync attempt or chunk.
type SyncLogStatus string

const (
	SyncLogStatusSuccess SyncLogStatus = "success"
	SyncLogStatusError   SyncLogStatus = "error"
	SyncLogStatusPartial SyncLogStatus = "partial"
)

// SyncLog is an append-only audit record. One row is written per sync
// attempt, plus one `partial` row per completed chunk on long-running syncs.
// Rows are never mutated or deleted.
type SyncLog struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	UserID    string        `json:"user_id" bson:"user_id"`
	StoreID   string        `json:"store_id,omitempty" bson:"store_id,omitempty"`
	Type      SyncType      `json:"type" bson:"type"`
	Detail    string        `json:"detail" bson:"detail"`
	Status    SyncLogStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
}

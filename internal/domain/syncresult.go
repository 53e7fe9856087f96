package domain

// SyncStatus is the top-level outcome kind of a sync invocation.
type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
	// SyncStatusNotImplemented marks a (platform, kind) combination the
	// dispatcher knows about but has no pipeline for. It is deliberately
	// distinct from success so callers can tell a placeholder apart from a
	// real zero-item run.
	SyncStatusNotImplemented SyncStatus = "not_implemented"
)

// SyncResult is returned synchronously to whoever triggered a sync.
type SyncResult struct {
	Status      SyncStatus `json:"status"`
	Message     string     `json:"message"`
	SyncedItems int        `json:"synced_items"`
}

// OK reports whether the sync should be presented as a failure.
func (r SyncResult) OK() bool {
	return r.Status != SyncStatusError
}

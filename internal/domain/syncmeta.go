package domain

import "time"

// SyncStatus tags where a syncable entity sits in its sync lifecycle.
type SyncStatus string

const (
	SyncStatusSynced        SyncStatus = "synced"
	SyncStatusPendingUpload SyncStatus = "pending_upload"
	SyncStatusPendingDelete SyncStatus = "pending_delete"
	SyncStatusConflict      SyncStatus = "conflict"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusSynced, SyncStatusPendingUpload, SyncStatusPendingDelete, SyncStatusConflict:
		return true
	}
	return false
}

// EntityType names a remote collection. One collection per entity kind.
type EntityType string

const (
	EntityDailyLog EntityType = "daily_logs"
	EntityFood     EntityType = "foods"
	EntityExercise EntityType = "exercises"
	EntityMeal     EntityType = "meals"
)

// SyncedCollections returns every collection the engine pulls, ordered so
// that parent records land before the child records that reference them.
func SyncedCollections() []EntityType {
	return []EntityType{EntityDailyLog, EntityMeal, EntityFood, EntityExercise}
}

// SyncMeta is mixed into every syncable entity. LastModified must advance on
// every mutation that should propagate; it is the sole input to last-write-wins
// conflict resolution.
type SyncMeta struct {
	UserID       string
	LastModified time.Time
	SyncStatus   SyncStatus
}

// Touch records a propagating local mutation.
func (m *SyncMeta) Touch(now time.Time) {
	m.LastModified = now.UTC()
	m.SyncStatus = SyncStatusPendingUpload
}

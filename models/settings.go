package models

// SyncStatus describes the device's relationship to its bound space.
type SyncStatus string

const (
	// SyncLocal means sharing is off and all data stays on the device.
	SyncLocal SyncStatus = "local"

	// SyncSyncing means an initial upload or re-subscription is in flight.
	SyncSyncing SyncStatus = "syncing"

	// SyncSynced means live subscriptions are established and the last
	// inbound snapshot was applied.
	SyncSynced SyncStatus = "synced"

	// SyncError means the last sync transition failed.
	SyncError SyncStatus = "error"
)

// Settings is the persisted, process-wide sharing/sync state of the device.
// It is reset to local defaults whenever sharing is disabled or the user
// signs out.
type Settings struct {
	// SharingEnabled is true while this device participates in a space.
	SharingEnabled bool `json:"sharingEnabled"`

	// CurrentSpaceID is the bound space, empty in local mode. For an owner
	// it equals the user's own id.
	CurrentSpaceID string `json:"currentSpaceId,omitempty"`

	// AvailableSpaces caches the spaces the signed-in user is a member of.
	AvailableSpaces []Space `json:"availableSpaces,omitempty"`

	// SyncStatus is the device's current sync state.
	SyncStatus SyncStatus `json:"syncStatus"`
}

// User is the minimal identity record the sync core consumes. Anything
// beyond id/email/display name stays inside the identity provider.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

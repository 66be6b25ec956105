package models

// Collection names used by the snapshot wire protocol. Each watch endpoint
// streams frames for exactly one collection of one space (or the per-user
// spaces list).
const (
	CollectionSpace      = "space"
	CollectionItems      = "items"
	CollectionRecipes    = "recipes"
	CollectionMembers    = "members"
	CollectionUserSpaces = "userSpaces"
)

// SnapshotFrame is one realtime message pushed by the space server. Frames
// always carry the full authoritative collection, never deltas: the receiver
// replaces its copy wholesale.
type SnapshotFrame struct {
	// Collection identifies which payload field below is populated.
	Collection string `json:"collection"`

	// SpaceID scopes the frame; empty for CollectionUserSpaces.
	SpaceID string `json:"spaceId,omitempty"`

	// OriginClientID is the client id supplied with the write that caused
	// this frame, or empty when the frame is an initial snapshot. A
	// subscriber that recognizes its own id here is seeing a reflection of
	// its not-yet-acknowledged write and must drop the frame.
	OriginClientID string `json:"originClientId,omitempty"`

	Space   *Space   `json:"space,omitempty"`
	Items   []Item   `json:"items,omitempty"`
	Recipes []Recipe `json:"recipes,omitempty"`
	Members []Member `json:"members,omitempty"`
	Spaces  []Space  `json:"spaces,omitempty"`
}

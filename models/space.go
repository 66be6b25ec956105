package models

import (
	"slices"
	"time"
)

// Space is the remote sharing unit. A space is keyed by the owning user's id:
// every user owns exactly one space, and sharing binds other users' devices
// to it as members.
type Space struct {
	// ID equals the owner's user id.
	ID string `json:"id"`

	OwnerID    string `json:"ownerId"`
	OwnerEmail string `json:"ownerEmail"`
	OwnerName  string `json:"ownerName,omitempty"`

	// MemberIDs is the set of user ids with access to the space,
	// including the owner.
	MemberIDs []string `json:"memberIds"`

	// SharingPaused makes the space read-only for members; bound member
	// devices are expected to fall back to their own space.
	SharingPaused bool `json:"sharingPaused"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether userID belongs to the space's member set.
func (s Space) HasMember(userID string) bool {
	return slices.Contains(s.MemberIDs, userID)
}

// MemberRole distinguishes the space owner from invited editors.
type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleEditor MemberRole = "editor"
)

// Member is the (space, user) membership record kept in the space's member
// sub-collection.
type Member struct {
	SpaceID     string     `json:"spaceId"`
	UserID      string     `json:"userId"`
	Role        MemberRole `json:"role"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	JoinedAt    time.Time  `json:"joinedAt"`
}

// InviteStatus is the lifecycle state of an invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// Invite is a pending offer of space membership, created by the inviter and
// mutated only through accept/decline/cancel.
type Invite struct {
	ID           string       `json:"id"`
	SpaceID      string       `json:"spaceId"`
	InviterID    string       `json:"inviterId"`
	InviteeEmail string       `json:"inviteeEmail"`
	Status       InviteStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
}

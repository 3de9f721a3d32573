package models

// Room is one settlement context: a trip whose members share expenses and
// settle up against each other. Expenses and transfer statuses never cross
// room boundaries.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string `json:"id"`

	// Name is the display name of the trip (e.g. "제주도 3박4일").
	Name string `json:"name"`

	// InviteCode is a short shareable code for joining the room.
	InviteCode string `json:"invite_code"`

	// Members are the display names of everyone in the room, in join order.
	Members []string `json:"members"`

	// CreatedBy is the user ID of the member who created the room.
	CreatedBy string `json:"created_by"`

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64 `json:"created_at"`
}

// HasMember reports whether name is in the room's member list.
func (r *Room) HasMember(name string) bool {
	for _, m := range r.Members {
		if m == name {
			return true
		}
	}
	return false
}

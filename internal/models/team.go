package models

import "time"

// Team is a cross-course working group. Unlike courses, all members share the
// same read access; ownership is tracked separately.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	OwnerID   uint      `gorm:"not null" json:"owner_id"`
	Owner     User      `json:"-"`
	Members   []User    `gorm:"many2many:team_members" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMember reports whether the user belongs to the team. The owner is always
// a member.
func (t Team) IsMember(userID uint) bool {
	if t.OwnerID == userID {
		return true
	}

	return containsUser(t.Members, userID)
}

// GetNumberOfMembers returns the member count, counting the owner when absent
// from the member relation.
func (t Team) GetNumberOfMembers() int {
	if containsUser(t.Members, t.OwnerID) {
		return len(t.Members)
	}

	return len(t.Members) + 1
}

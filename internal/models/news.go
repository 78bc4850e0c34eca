package models

import "time"

// News target models. School news is visible to everyone at the school;
// course and team news follow the membership of their target.
const (
	NewsTargetSchool = "school"
	NewsTargetCourse = "course"
	NewsTargetTeam   = "team"
)

// News is an announcement published to a target audience at a display date.
// Unpublished news (display date in the future) requires edit permission.
type News struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	DisplayAt   time.Time `gorm:"not null;index" json:"display_at"`
	TargetModel string    `gorm:"size:16;not null;index" json:"target_model"`
	TargetID    uint      `gorm:"index" json:"target_id"`
	CreatorID   uint      `gorm:"not null" json:"creator_id"`
	Creator     User      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPublished reports whether the news is visible to readers at the given
// reference time.
func (n News) IsPublished(reference time.Time) bool {
	return !n.DisplayAt.After(reference)
}

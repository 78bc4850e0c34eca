package models

import "time"

// Lesson belongs to exactly one course. Hidden lessons are only visible to
// users with write permission on the course.
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Hidden    bool      `gorm:"not null;default:false" json:"hidden"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Course    Course    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

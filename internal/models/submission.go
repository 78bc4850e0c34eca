package models

import "time"

// Submission is a student's answer to a task. A student may submit more than
// once; aggregation over submissions always deduplicates by student identity.
type Submission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       uint      `gorm:"not null;index" json:"task_id"`
	StudentID    uint      `gorm:"not null;index" json:"student_id"`
	Student      User      `json:"student"`
	TeamMembers  []User    `gorm:"many2many:submission_team_members" json:"-"`
	Comment      string    `gorm:"type:text" json:"comment"`
	FileURL      string    `gorm:"size:512" json:"file_url"`
	Grade        *float64  `json:"grade"`
	GradeComment string    `gorm:"type:text" json:"grade_comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsGraded reports whether a teacher has graded the submission, either with a
// grade value or a written evaluation.
func (s Submission) IsGraded() bool {
	return s.Grade != nil || s.GradeComment != ""
}

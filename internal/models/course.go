package models

import "time"

// Course is the central learn room. Membership is split into three relations;
// teachers and substitution teachers hold write permission, students only read.
type Course struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	Name                 string     `gorm:"size:255;not null" json:"name"`
	Color                string     `gorm:"size:16" json:"color"`
	StartDate            *time.Time `json:"start_date"`
	UntilDate            *time.Time `json:"until_date"`
	Students             []User     `gorm:"many2many:course_students" json:"-"`
	Teachers             []User     `gorm:"many2many:course_teachers" json:"-"`
	SubstitutionTeachers []User     `gorm:"many2many:course_substitution_teachers" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IsFinished reports whether the course until date has passed at the given
// reference time. A course without an until date is never finished.
func (c Course) IsFinished(reference time.Time) bool {
	if c.UntilDate == nil {
		return false
	}

	return c.UntilDate.Before(reference)
}

// GetNumberOfStudents returns the current student count. It bounds the number
// of submissions a course task can expect.
func (c Course) GetNumberOfStudents() int {
	return len(c.Students)
}

// IsStudent reports whether the user is enrolled as a student.
func (c Course) IsStudent(userID uint) bool {
	return containsUser(c.Students, userID)
}

// IsTeacher reports whether the user teaches the course.
func (c Course) IsTeacher(userID uint) bool {
	return containsUser(c.Teachers, userID)
}

// IsSubstitutionTeacher reports whether the user substitutes in the course.
func (c Course) IsSubstitutionTeacher(userID uint) bool {
	return containsUser(c.SubstitutionTeachers, userID)
}

// IsMember reports whether the user appears in any membership relation.
func (c Course) IsMember(userID uint) bool {
	return c.IsStudent(userID) || c.IsTeacher(userID) || c.IsSubstitutionTeacher(userID)
}

func containsUser(users []User, userID uint) bool {
	for _, user := range users {
		if user.ID == userID {
			return true
		}
	}

	return false
}

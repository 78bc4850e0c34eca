package models

import "time"

// Task is an exercise handed out to students. The parent chain is optional in
// both steps: a task can hang below a lesson, directly below a course, or be
// parentless (visible to its creator only).
type Task struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Private     bool         `gorm:"not null" json:"private"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	CreatorID   uint         `gorm:"not null;index" json:"creator_id"`
	Creator     User         `json:"-"`
	CourseID    *uint        `gorm:"index" json:"course_id"`
	Course      *Course      `json:"-"`
	LessonID    *uint        `gorm:"index" json:"lesson_id"`
	Lesson      *Lesson      `json:"-"`
	FinishedBy  []User       `gorm:"many2many:task_finished_users" json:"-"`
	Submissions []Submission `json:"-"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskStatus is the computed, non-persisted submission progress of a task as
// seen by one specific viewer. It is a display value; submitted and graded may
// exceed maxSubmissions on malformed membership data and are not corrected.
type TaskStatus struct {
	Submitted             int  `json:"submitted"`
	Graded                int  `json:"graded"`
	MaxSubmissions        int  `json:"max_submissions"`
	IsDraft               bool `json:"is_draft"`
	IsSubstitutionTeacher bool `json:"is_substitution_teacher"`
}

// IsDraft reports whether the task is still private to its creator.
func (t Task) IsDraft() bool {
	return t.Private
}

// IsFinishedForUser reports whether the user has archived the task.
func (t Task) IsFinishedForUser(userID uint) bool {
	return containsUser(t.FinishedBy, userID)
}

// GetSubmittedUsers returns the students that submitted to the task, unique by
// student identity with first occurrence order preserved.
func (t Task) GetSubmittedUsers() []User {
	seen := make(map[uint]struct{}, len(t.Submissions))
	users := []User{}

	for _, submission := range t.Submissions {
		if _, ok := seen[submission.StudentID]; ok {
			continue
		}
		seen[submission.StudentID] = struct{}{}
		users = append(users, submission.Student)
	}

	return users
}

// GetNumberOfSubmittedUsers counts the unique submitters.
func (t Task) GetNumberOfSubmittedUsers() int {
	return len(t.GetSubmittedUsers())
}

// GetGradedUsers returns the students with at least one graded submission,
// unique by student identity. A student with one graded and one ungraded
// submission counts as graded.
func (t Task) GetGradedUsers() []User {
	seen := make(map[uint]struct{}, len(t.Submissions))
	users := []User{}

	for _, submission := range t.Submissions {
		if !submission.IsGraded() {
			continue
		}
		if _, ok := seen[submission.StudentID]; ok {
			continue
		}
		seen[submission.StudentID] = struct{}{}
		users = append(users, submission.Student)
	}

	return users
}

// GetNumberOfGradedUsers counts the unique graded submitters.
func (t Task) GetNumberOfGradedUsers() int {
	return len(t.GetGradedUsers())
}

// GetMaxSubmissions returns the number of submissions the task can expect,
// which is the current student count of its course, or 0 without a course.
func (t Task) GetMaxSubmissions() int {
	if t.Course == nil {
		return 0
	}

	return t.Course.GetNumberOfStudents()
}

// IsSubmittedForUser reports whether the user appears among the submitters.
func (t Task) IsSubmittedForUser(userID uint) bool {
	return containsUser(t.GetSubmittedUsers(), userID)
}

// IsGradedForUser reports whether any of the user's submissions is graded.
func (t Task) IsGradedForUser(userID uint) bool {
	return containsUser(t.GetGradedUsers(), userID)
}

// CreateStudentStatusForUser computes the task status from the perspective of
// a single student: submitted and graded collapse to 0 or 1 for that student
// and exactly one submission is expected, their own.
func (t Task) CreateStudentStatusForUser(user User) TaskStatus {
	submitted := 0
	if t.IsSubmittedForUser(user.ID) {
		submitted = 1
	}

	graded := 0
	if t.IsGradedForUser(user.ID) {
		graded = 1
	}

	return TaskStatus{
		Submitted:             submitted,
		Graded:                graded,
		MaxSubmissions:        1,
		IsDraft:               t.IsDraft(),
		IsSubstitutionTeacher: false,
	}
}

// CreateTeacherStatusForUser computes the course-wide task status: counts of
// unique submitters and graded submitters against the course student count.
func (t Task) CreateTeacherStatusForUser(user User) TaskStatus {
	isSubstitutionTeacher := false
	if t.Course != nil {
		isSubstitutionTeacher = t.Course.IsSubstitutionTeacher(user.ID)
	}

	return TaskStatus{
		Submitted:             t.GetNumberOfSubmittedUsers(),
		Graded:                t.GetNumberOfGradedUsers(),
		MaxSubmissions:        t.GetMaxSubmissions(),
		IsDraft:               t.IsDraft(),
		IsSubstitutionTeacher: isSubstitutionTeacher,
	}
}

package dto

import (
	"time"

	"github.com/schulportal/schulportal-api/internal/models"
)

// ListRequest carries the pagination bounds of a listing call. Zero values
// leave the repository defaults in place.
type ListRequest struct {
	Skip  int `query:"skip" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0,max=100"`
}

// TaskResponse is the serialized task without its status.
type TaskResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	CourseID    *uint      `json:"course_id"`
	CourseName  string     `json:"course_name"`
	LessonID    *uint      `json:"lesson_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskStatusResponse is the viewer-specific submission progress of a task.
type TaskStatusResponse struct {
	Submitted             int  `json:"submitted"`
	Graded                int  `json:"graded"`
	MaxSubmissions        int  `json:"max_submissions"`
	IsDraft               bool `json:"is_draft"`
	IsSubstitutionTeacher bool `json:"is_substitution_teacher"`
}

// TaskWithStatusResponse pairs a task with the status computed for the caller.
type TaskWithStatusResponse struct {
	Task   TaskResponse       `json:"task"`
	Status TaskStatusResponse `json:"status"`
}

// TaskListResponse is the paginated result of a task listing.
type TaskListResponse struct {
	Items []TaskWithStatusResponse `json:"items"`
	Total int64                    `json:"total"`
	Skip  int                      `json:"skip"`
	Limit int                      `json:"limit"`
}

// NewTaskResponse maps a task entity to its transport shape.
func NewTaskResponse(task models.Task) TaskResponse {
	response := TaskResponse{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		CourseID:    task.CourseID,
		LessonID:    task.LessonID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Course != nil {
		response.CourseName = task.Course.Name
	}

	return response
}

// NewTaskStatusResponse maps a computed status to its transport shape.
func NewTaskStatusResponse(status models.TaskStatus) TaskStatusResponse {
	return TaskStatusResponse{
		Submitted:             status.Submitted,
		Graded:                status.Graded,
		MaxSubmissions:        status.MaxSubmissions,
		IsDraft:               status.IsDraft,
		IsSubstitutionTeacher: status.IsSubstitutionTeacher,
	}
}

// NewTaskWithStatusResponse pairs a task and its status for transport.
func NewTaskWithStatusResponse(task models.Task, status models.TaskStatus) TaskWithStatusResponse {
	return TaskWithStatusResponse{
		Task:   NewTaskResponse(task),
		Status: NewTaskStatusResponse(status),
	}
}

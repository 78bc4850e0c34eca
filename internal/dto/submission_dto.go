package dto

import (
	"time"

	"github.com/schulportal/schulportal-api/internal/models"
)

// SubmissionCreateRequest is the payload for handing in a submission.
type SubmissionCreateRequest struct {
	TaskID  uint   `json:"task_id" validate:"required"`
	Comment string `json:"comment" validate:"max=4000"`
}

// SubmissionGradeRequest is the payload for grading a submission.
type SubmissionGradeRequest struct {
	Grade        *float64 `json:"grade" validate:"omitempty,min=0,max=100"`
	GradeComment *string  `json:"grade_comment" validate:"omitempty,max=4000"`
}

// SubmissionResponse is the serialized submission.
type SubmissionResponse struct {
	ID           uint      `json:"id"`
	TaskID       uint      `json:"task_id"`
	StudentID    uint      `json:"student_id"`
	Comment      string    `json:"comment"`
	FileURL      string    `json:"file_url"`
	Grade        *float64  `json:"grade"`
	GradeComment string    `json:"grade_comment"`
	Graded       bool      `json:"graded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSubmissionResponse maps a submission entity to its transport shape.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           submission.ID,
		TaskID:       submission.TaskID,
		StudentID:    submission.StudentID,
		Comment:      submission.Comment,
		FileURL:      submission.FileURL,
		Grade:        submission.Grade,
		GradeComment: submission.GradeComment,
		Graded:       submission.IsGraded(),
		CreatedAt:    submission.CreatedAt,
		UpdatedAt:    submission.UpdatedAt,
	}
}

// NewSubmissionResponseSlice maps a submission slice to transport shapes.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}

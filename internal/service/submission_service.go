package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// ErrSubmissionNotFound indicates the requested submission does not exist.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrTaskNotFound indicates the referenced task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// ErrNoTaskPermission indicates the caller lacks the required permission on
// the submission's task.
var ErrNoTaskPermission = errors.New("missing task permission")

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// SubmissionService handles handing in and grading submissions.
type SubmissionService interface {
	ListOwn(ctx context.Context, userID uint) ([]dto.SubmissionResponse, error)
	Create(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Grade(ctx context.Context, userID uint, submissionID uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions   repository.SubmissionRepository
	tasks         repository.TaskRepository
	users         repository.UserRepository
	authorization TaskAuthorizationService
	validator     *validator.Validate
	uploader      FileUploader
	logger        zerolog.Logger
	now           func() time.Time
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, tasks repository.TaskRepository, users repository.UserRepository, authorization TaskAuthorizationService, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions:   submissions,
		tasks:         tasks,
		users:         users,
		authorization: authorization,
		validator:     validate,
		uploader:      uploader,
		logger:        logger.With().Str("component", "submission_service").Logger(),
		now:           time.Now,
	}
}

func (s *submissionService) ListOwn(ctx context.Context, userID uint) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.FindAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Create(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTaskNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if task.IsDraft() && task.CreatorID != user.ID {
		return dto.SubmissionResponse{}, ErrTaskNotFound
	}

	if !s.authorization.HasTaskPermission(user, task, TaskParentRead) {
		return dto.SubmissionResponse{}, ErrNoTaskPermission
	}

	submission := models.Submission{
		TaskID:    task.ID,
		StudentID: user.ID,
		Comment:   payload.Comment,
	}

	if file != nil {
		url, err := s.uploadFile(ctx, file)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}
		submission.FileURL = url
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Uint("task_id", task.ID).Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Grade(ctx context.Context, userID uint, submissionID uint, payload dto.SubmissionGradeRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if payload.Grade == nil && payload.GradeComment == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("grade or grade comment is required")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	task, err := s.tasks.GetByID(ctx, submission.TaskID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !s.authorization.HasTaskPermission(user, task, TaskParentWrite) {
		return dto.SubmissionResponse{}, ErrNoTaskPermission
	}

	if payload.Grade != nil {
		submission.Grade = payload.Grade
	}
	if payload.GradeComment != nil {
		submission.GradeComment = *payload.GradeComment
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) uploadFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if err := validateFileType(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	url, err := s.uploader.Upload(ctx, file.Filename, src)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, nil
}

func (s *submissionService) loadUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{"application/pdf", "application/zip", "application/x-zip-compressed", "text/plain", "image/png", "image/jpeg"}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}

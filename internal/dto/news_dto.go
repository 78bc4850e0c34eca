package dto

import (
	"time"

	"github.com/schulportal/schulportal-api/internal/models"
)

// NewsCreateRequest is the payload for publishing news.
type NewsCreateRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Body        string    `json:"body" validate:"required"`
	DisplayAt   time.Time `json:"display_at"`
	TargetModel string    `json:"target_model" validate:"required,oneof=school course team"`
	TargetID    uint      `json:"target_id"`
}

// NewsUpdateRequest carries partial news updates.
type NewsUpdateRequest struct {
	Title     *string    `json:"title" validate:"omitempty,max=255"`
	Body      *string    `json:"body"`
	DisplayAt *time.Time `json:"display_at"`
}

// NewsListRequest narrows a news listing.
type NewsListRequest struct {
	Unpublished bool `query:"unpublished"`
	Skip        int  `query:"skip" validate:"min=0"`
	Limit       int  `query:"limit" validate:"min=0,max=100"`
}

// NewsResponse is the serialized news item.
type NewsResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	DisplayAt   time.Time `json:"display_at"`
	TargetModel string    `json:"target_model"`
	TargetID    uint      `json:"target_id"`
	CreatorID   uint      `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewsListResponse is a paginated news listing.
type NewsListResponse struct {
	Items []NewsResponse `json:"items"`
	Total int64          `json:"total"`
}

// NewNewsResponse maps a news entity to its transport shape.
func NewNewsResponse(news models.News) NewsResponse {
	return NewsResponse{
		ID:          news.ID,
		Title:       news.Title,
		Body:        news.Body,
		DisplayAt:   news.DisplayAt,
		TargetModel: news.TargetModel,
		TargetID:    news.TargetID,
		CreatorID:   news.CreatorID,
		CreatedAt:   news.CreatedAt,
		UpdatedAt:   news.UpdatedAt,
	}
}

// NewNewsResponseSlice maps a news slice to transport shapes.
func NewNewsResponseSlice(news []models.News) []NewsResponse {
	responses := make([]NewsResponse, 0, len(news))
	for _, item := range news {
		responses = append(responses, NewNewsResponse(item))
	}

	return responses
}

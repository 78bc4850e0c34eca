package dto

import (
	"time"

	"github.com/schulportal/schulportal-api/internal/models"
)

// TeamListRequest narrows a team listing by name.
type TeamListRequest struct {
	Name  string `query:"name" validate:"omitempty,max=255"`
	Skip  int    `query:"skip" validate:"min=0"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

// TeamCreateRequest is the payload for creating a team.
type TeamCreateRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	MemberIDs []uint `json:"member_ids"`
}

// TeamResponse is the serialized team.
type TeamResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	OwnerID       uint      `json:"owner_id"`
	NumberOfUsers int       `json:"number_of_users"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeamListResponse is a paginated team listing.
type TeamListResponse struct {
	Items []TeamResponse `json:"items"`
	Total int64          `json:"total"`
}

// NewTeamResponse maps a team entity to its transport shape.
func NewTeamResponse(team models.Team) TeamResponse {
	return TeamResponse{
		ID:            team.ID,
		Name:          team.Name,
		OwnerID:       team.OwnerID,
		NumberOfUsers: team.GetNumberOfMembers(),
		CreatedAt:     team.CreatedAt,
		UpdatedAt:     team.UpdatedAt,
	}
}

// NewTeamResponseSlice maps a team slice to transport shapes.
func NewTeamResponseSlice(teams []models.Team) []TeamResponse {
	responses := make([]TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, NewTeamResponse(team))
	}

	return responses
}

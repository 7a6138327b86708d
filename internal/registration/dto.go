// AngelaMos | 2026
// dto.go

package registration

import (
	"time"
)

type CreateRegistrationRequest struct {
	RaceID string `json:"raceId" validate:"required,uuid"`
}

type AdminCreateRequest struct {
	UserID string  `json:"userId"           validate:"required,uuid"`
	RaceID string  `json:"raceId"           validate:"required,uuid"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
}

type UpdateRegistrationRequest struct {
	Status     *string `json:"status,omitempty"     validate:"omitempty,oneof=pending approved rejected"`
	FinishTime *int    `json:"finishTime,omitempty" validate:"omitempty,gte=0"`
	Position   *int    `json:"position,omitempty"   validate:"omitempty,gte=1"`
}

type ListFilter struct {
	UserID string
	RaceID string
	Status string
}

type RegistrationResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RaceID       string    `json:"raceId"`
	RegisteredAt time.Time `json:"registeredAt"`
	Status       string    `json:"status"`
	FinishTime   *int      `json:"finishTime"`
	Position     *int      `json:"position"`
}

type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

type RaceSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartDate time.Time `json:"startDate"`
	Status    string    `json:"status"`
}

type RegistrationDetailResponse struct {
	RegistrationResponse
	User UserSummary `json:"user"`
	Race RaceSummary `json:"race"`
}

func ToRegistrationResponse(r *Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		RaceID:       r.RaceID,
		RegisteredAt: r.RegisteredAt,
		Status:       r.Status,
		FinishTime:   r.FinishTime,
		Position:     r.Position,
	}
}

func ToDetailResponse(r *RegistrationWithDetails) RegistrationDetailResponse {
	return RegistrationDetailResponse{
		RegistrationResponse: ToRegistrationResponse(&r.Registration),
		User: UserSummary{
			ID:    r.UserID,
			Name:  r.UserName,
			Email: r.UserEmail,
			Image: r.UserImage,
		},
		Race: RaceSummary{
			ID:        r.RaceID,
			Name:      r.RaceName,
			Location:  r.RaceLocation,
			StartDate: r.RaceStartDate,
			Status:    r.RaceStatus,
		},
	}
}

func ToDetailResponseList(rows []RegistrationWithDetails) []RegistrationDetailResponse {
	out := make([]RegistrationDetailResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToDetailResponse(&rows[i]))
	}
	return out
}

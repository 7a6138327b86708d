// AngelaMos | 2026
// dto.go

package race

import (
	"time"
)

type CreateRaceRequest struct {
	Name                 string    `json:"name"                 validate:"required,min=1,max=100"`
	Description          string    `json:"description"          validate:"required,min=10,max=1000"`
	Image                *string   `json:"image,omitempty"      validate:"omitempty,max=2048"`
	Location             string    `json:"location"             validate:"required,min=1,max=200"`
	StartDate            time.Time `json:"startDate"            validate:"required"`
	EndDate              time.Time `json:"endDate"              validate:"required"`
	RegistrationDeadline time.Time `json:"registrationDeadline" validate:"required"`
	MaxParticipants      *int      `json:"maxParticipants,omitempty" validate:"omitempty,min=1"`
	Status               *string   `json:"status,omitempty"     validate:"omitempty,oneof=upcoming registration_open registration_closed ongoing completed"`
}

type UpdateRaceRequest struct {
	Name                 *string    `json:"name,omitempty"                 validate:"omitempty,min=1,max=100"`
	Description          *string    `json:"description,omitempty"          validate:"omitempty,min=10,max=1000"`
	Image                *string    `json:"image,omitempty"                validate:"omitempty,max=2048"`
	Location             *string    `json:"location,omitempty"             validate:"omitempty,min=1,max=200"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	RegistrationDeadline *time.Time `json:"registrationDeadline,omitempty"`
	MaxParticipants      *int       `json:"maxParticipants,omitempty"      validate:"omitempty,min=1"`
	Status               *string    `json:"status,omitempty"               validate:"omitempty,oneof=upcoming registration_open registration_closed ongoing completed"`
}

// ListFilter narrows the race list. From and To bound start_date
// inclusively.
type ListFilter struct {
	Status   string
	Location string
	From     *time.Time
	To       *time.Time
}

type CreatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RaceResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Image                *string         `json:"image"`
	Location             string          `json:"location"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              time.Time       `json:"endDate"`
	RegistrationDeadline time.Time       `json:"registrationDeadline"`
	MaxParticipants      *int            `json:"maxParticipants"`
	Status               string          `json:"status"`
	CreatedBy            CreatorResponse `json:"createdBy"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

type RaceDetailResponse struct {
	RaceResponse
	RegistrationCount int                  `json:"registrationCount"`
	UserRegistration  *RegistrationSummary `json:"userRegistration"`
}

func ToRaceResponse(r *RaceWithCreator) RaceResponse {
	return RaceResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		Description:          r.Description,
		Image:                r.Image,
		Location:             r.Location,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		RegistrationDeadline: r.RegistrationDeadline,
		MaxParticipants:      r.MaxParticipants,
		Status:               r.Status,
		CreatedBy: CreatorResponse{
			ID:    r.CreatedBy,
			Name:  r.CreatorName,
			Email: r.CreatorEmail,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func ToRaceResponseList(races []RaceWithCreator) []RaceResponse {
	out := make([]RaceResponse, 0, len(races))
	for i := range races {
		out = append(out, ToRaceResponse(&races[i]))
	}
	return out
}

// AngelaMos | 2026
// events.go

package events

import (
	"context"
	"time"
)

const TypeRegistrationCreated = "registration.created"

type RegistrationCreated struct {
	RegistrationID string    `json:"registrationId"`
	RaceID         string    `json:"raceId"`
	UserID         string    `json:"userId"`
	Status         string    `json:"status"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// Publisher delivers domain events. Callers treat failures as best-effort:
// the triggering write has already committed.
type Publisher interface {
	PublishRegistrationCreated(ctx context.Context, e RegistrationCreated) error
	Close() error
}

type Nop struct{}

func (Nop) PublishRegistrationCreated(context.Context, RegistrationCreated) error {
	return nil
}

func (Nop) Close() error { return nil }

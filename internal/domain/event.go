package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Event is a listed campus event. CreatedBy holds the creator's account ID.
type Event struct {
	EventID          string    `json:"id" dynamodbav:"event_id"`
	Name             string    `json:"name" dynamodbav:"name"`
	Organization     string    `json:"organization" dynamodbav:"organization"`
	Description      string    `json:"description" dynamodbav:"description"`
	Venue            string    `json:"venue" dynamodbav:"venue"`
	RegistrationLink string    `json:"registrationLink" dynamodbav:"registration_link"`
	Date             string    `json:"date" dynamodbav:"date"`
	Poster           *string   `json:"poster" dynamodbav:"poster"`
	Category         string    `json:"category" dynamodbav:"category"`
	CreatedBy        string    `json:"-" dynamodbav:"created_by"`
	DedupKey         string    `json:"-" dynamodbav:"dedup_key"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// EventDedupKey identifies an event by name, date, venue and organization.
func EventDedupKey(name, date, venue, organization string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{name, date, venue, organization}, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// Creator is the public projection of the account that created an event.
type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EventView is an Event with its creator populated.
type EventView struct {
	Event
	CreatedBy *Creator `json:"createdBy"`
}

// CreateEventRequest holds the text fields of POST /api/events.
type CreateEventRequest struct {
	Name             string `json:"name" validate:"required"`
	Organization     string `json:"organization"`
	Description      string `json:"description"`
	Venue            string `json:"venue"`
	RegistrationLink string `json:"registrationLink" validate:"omitempty,url"`
	Date             string `json:"date"`
	Category         string `json:"category" validate:"required"`
}

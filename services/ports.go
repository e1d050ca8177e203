package services

import (
	"context"
	"io"

	"viemind/models"
)

// WelcomeMailer sends the account confirmation message after registration
type WelcomeMailer interface {
	SendWelcomeEmail(to, name, locale string) error
}

// SupportMailer forwards contact form requests to the support inbox
type SupportMailer interface {
	SendSupportEmail(name, email, issueType, subject, message string) error
}

// CompetitionNotifier announces new competitions to the moderation team
type CompetitionNotifier interface {
	CompetitionCreated(ctx context.Context, competition *models.Competition, organization *models.Organization) error
}

// Broadcaster pushes competition events to connected realtime clients
type Broadcaster interface {
	Broadcast(competitionID, eventType string, payload interface{})
}

// Realtime event types
const (
	EventSubmissionCreated = "submission.created"
	EventSubmissionScored  = "submission.scored"
	EventParticipantJoined = "participant.joined"
)

// StoredFile describes a persisted upload
type StoredFile struct {
	Name        string
	URL         string
	Size        int64
	ContentType string
}

// FileStore persists uploaded submission files
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*StoredFile, error)
	Remove(name string) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{}) {}

// Package storage defines the data-access facade used by the services. The
// gorm implementation lives in package database.
package storage

import (
	"context"
	"errors"
	"time"

	"viemind/models"
)

var (
	// ErrNotFound is returned when the referenced row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// CompetitionFilter is a conjunction of equality predicates; nil fields are unconstrained
type CompetitionFilter struct {
	Status   *models.CompetitionStatus
	Category *models.Category
	Featured *bool
}

// Storage is the typed CRUD and query surface over the persistence layer
type Storage interface {
	Ping(ctx context.Context) error

	// Users
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	GetTopUsers(ctx context.Context, limit int) ([]models.User, error)

	// Organizations
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	GetOrganizationByUserID(ctx context.Context, userID string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, org *models.Organization) error
	UpdateOrganization(ctx context.Context, id string, fields map[string]interface{}) (*models.Organization, error)

	// Competitions
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	ListCompetitions(ctx context.Context, filter CompetitionFilter) ([]models.Competition, error)
	ListCompetitionsByOrganization(ctx context.Context, organizationID string) ([]models.Competition, error)
	ListFeaturedCompetitions(ctx context.Context, limit int) ([]models.Competition, error)
	CreateCompetition(ctx context.Context, competition *models.Competition) error
	UpdateCompetition(ctx context.Context, id string, fields map[string]interface{}) (*models.Competition, error)
	AwardCompetitionPoints(ctx context.Context, competitionID string, awards map[string]int) (bool, error)

	// Participants
	GetParticipant(ctx context.Context, userID, competitionID string) (*models.Participant, error)
	GetParticipantByID(ctx context.Context, id string) (*models.Participant, error)
	CreateParticipant(ctx context.Context, participant *models.Participant) error
	ListParticipantsByCompetition(ctx context.Context, competitionID string) ([]models.Participant, error)
	ListParticipantsByUser(ctx context.Context, userID string) ([]models.Participant, error)
	UpdateParticipant(ctx context.Context, id string, fields map[string]interface{}) (*models.Participant, error)

	// Submissions
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissionsByParticipant(ctx context.Context, participantID string) ([]models.Submission, error)
	Leaderboard(ctx context.Context, competitionID string, limit int) ([]models.Submission, error)
	ScoreSubmission(ctx context.Context, id string, score float64, feedback string) (*models.Submission, error)
	RecomputeRanks(ctx context.Context, competitionID string) error

	// Sessions
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

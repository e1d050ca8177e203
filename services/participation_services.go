package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"viemind/config"
	"viemind/metrics"
	"viemind/models"
	"viemind/storage"

	log "github.com/sirupsen/logrus"
)

// Upload is a submission file as received from the client
type Upload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// ParticipationService handles joining, submitting and ranking
type ParticipationService struct {
	store            storage.Storage
	files            FileStore
	hub              Broadcaster
	maxUploadBytes   int64
	leaderboardLimit int
	now              func() time.Time
}

// NewParticipationService builds the service; hub may be nil
func NewParticipationService(cfg *config.Config, store storage.Storage, files FileStore, hub Broadcaster) *ParticipationService {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &ParticipationService{
		store:            store,
		files:            files,
		hub:              hub,
		maxUploadBytes:   cfg.MaxUploadBytes,
		leaderboardLimit: cfg.LeaderboardLimit,
		now:              time.Now,
	}
}

// Join enrolls a user in a competition
func (s *ParticipationService) Join(ctx context.Context, userID, competitionID, teamName string) (*models.Participant, error) {
	competition, err := s.store.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}

	if _, err := s.store.GetParticipant(ctx, userID, competitionID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if competition.Status.Closed() {
		return nil, ErrCompetitionClosed
	}
	if competition.MaxParticipants != nil && competition.CurrentParticipants >= *competition.MaxParticipants {
		return nil, ErrCompetitionFull
	}

	participant := &models.Participant{
		UserID:        userID,
		CompetitionID: competitionID,
		TeamName:      strings.TrimSpace(teamName),
		JoinedAt:      s.now(),
	}
	if err := s.store.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, wrap(ErrAlreadyJoined, err)
		}
		return nil, err
	}
	metrics.ParticipantsJoined.Inc()

	s.hub.Broadcast(competitionID, EventParticipantJoined, participant)
	return participant, nil
}

// Submit stores an uploaded file as a new submission of the user's participant
func (s *ParticipationService) Submit(ctx context.Context, userID, competitionID string, upload *Upload) (*models.Submission, error) {
	competition, err := s.store.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}

	participant, err := s.store.GetParticipant(ctx, userID, competitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrNotParticipating)
	}
	if participant.IsDisqualified {
		return nil, ErrParticipantDisqualified
	}
	if s.now().After(competition.SubmissionDeadline) {
		return nil, ErrSubmissionClosed
	}

	if upload == nil || upload.Content == nil {
		return nil, ErrFileRequired
	}
	if upload.Size > s.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	stored, err := s.files.Save(ctx, upload.Name, io.LimitReader(upload.Content, s.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if stored.Size > s.maxUploadBytes {
		s.removeFile(stored)
		return nil, ErrFileTooLarge
	}

	submission := &models.Submission{
		ParticipantID: participant.ID,
		FileName:      upload.Name,
		FileURL:       stored.URL,
		FileSize:      stored.Size,
		ContentType:   stored.ContentType,
		IsPublic:      true,
		SubmittedAt:   s.now(),
	}
	if err := s.store.CreateSubmission(ctx, submission); err != nil {
		s.removeFile(stored)
		return nil, err
	}
	metrics.SubmissionsCreated.Inc()
	metrics.SubmissionBytes.Observe(float64(stored.Size))

	s.hub.Broadcast(competitionID, EventSubmissionCreated, submission)
	return submission, nil
}

func (s *ParticipationService) removeFile(stored *StoredFile) {
	if err := s.files.Remove(stored.Name); err != nil {
		log.Printf("Failed to remove upload %s: %v", stored.Name, err)
	}
}

// Leaderboard returns the best submissions of a competition
func (s *ParticipationService) Leaderboard(ctx context.Context, competitionID string, limit int) ([]models.Submission, error) {
	if _, err := s.store.GetCompetition(ctx, competitionID); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	if limit <= 0 {
		limit = s.leaderboardLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.Leaderboard(ctx, competitionID, limit)
}

// Participants lists the participants of a competition with their user
func (s *ParticipationService) Participants(ctx context.Context, competitionID string) ([]models.Participant, error) {
	if _, err := s.store.GetCompetition(ctx, competitionID); err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return s.store.ListParticipantsByCompetition(ctx, competitionID)
}

// UserCompetitions lists the enrollments of a user with their competition
func (s *ParticipationService) UserCompetitions(ctx context.Context, userID string) ([]models.Participant, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound)
	}
	return s.store.ListParticipantsByUser(ctx, userID)
}

// MySubmissions lists the caller's submissions to a competition, newest first
func (s *ParticipationService) MySubmissions(ctx context.Context, userID, competitionID string) ([]models.Submission, error) {
	participant, err := s.store.GetParticipant(ctx, userID, competitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrNotParticipating)
	}
	return s.store.ListSubmissionsByParticipant(ctx, participant.ID)
}

// Score records the result computed by the external evaluator (administrators only)
func (s *ParticipationService) Score(ctx context.Context, actor *models.User, submissionID string, score float64, feedback string) (*models.Submission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	submission, err := s.store.ScoreSubmission(ctx, submissionID, score, feedback)
	if err != nil {
		return nil, notFoundAs(err, ErrSubmissionNotFound)
	}

	s.hub.Broadcast(submission.CompetitionID, EventSubmissionScored, submission)
	return submission, nil
}

// Disqualify sets or clears the disqualification of a participant and refreshes the ranks
func (s *ParticipationService) Disqualify(ctx context.Context, actor *models.User, competitionID, participantID string, disqualified bool) (*models.Participant, error) {
	competition, err := s.store.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	if err := canManageCompetition(ctx, s.store, actor, competition); err != nil {
		return nil, err
	}

	participant, err := s.store.GetParticipantByID(ctx, participantID)
	if err != nil {
		return nil, notFoundAs(err, ErrParticipantNotFound)
	}
	if participant.CompetitionID != competitionID {
		return nil, ErrParticipantNotFound
	}

	if _, err := s.store.UpdateParticipant(ctx, participantID, map[string]interface{}{"is_disqualified": disqualified}); err != nil {
		return nil, notFoundAs(err, ErrParticipantNotFound)
	}
	if err := s.store.RecomputeRanks(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.store.GetParticipantByID(ctx, participantID)
}

package services

import (
	"context"
	"strings"
	"time"

	"viemind/config"
	"viemind/i18n"
	"viemind/metrics"
	"viemind/models"
	"viemind/storage"
	"viemind/utils"

	log "github.com/sirupsen/logrus"
)

const maxListLimit = 100

// CreateCompetitionInput holds the fields an organization may set on a new competition.
// Approval and featuring are moderation decisions and cannot be requested.
type CreateCompetitionInput struct {
	Title              string
	Description        string
	Category           models.Category
	Tags               []string
	PrizeAmount        *float64
	Currency           string
	StartDate          time.Time
	EndDate            time.Time
	SubmissionDeadline time.Time
	IsPublic           *bool
	MaxParticipants    *int
	EvaluationMetric   string
	DatasetURL         string
	Rules              string
	Status             *models.CompetitionStatus
}

// CompetitionService is the competition directory plus its moderation operations
type CompetitionService struct {
	store         storage.Storage
	notifier      CompetitionNotifier
	invalidator   UserInvalidator
	translator    *i18n.Translator
	featuredLimit int
	now           func() time.Time
}

// NewCompetitionService builds the service; notifier and invalidator may be nil
func NewCompetitionService(cfg *config.Config, store storage.Storage, translator *i18n.Translator, notifier CompetitionNotifier, invalidator UserInvalidator) *CompetitionService {
	return &CompetitionService{
		store:         store,
		notifier:      notifier,
		invalidator:   invalidator,
		translator:    translator,
		featuredLimit: cfg.FeaturedLimit,
		now:           time.Now,
	}
}

// List returns the competitions matching every set filter, newest first
func (s *CompetitionService) List(ctx context.Context, filter storage.CompetitionFilter) ([]models.Competition, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	return s.store.ListCompetitions(ctx, filter)
}

func (s *CompetitionService) Get(ctx context.Context, id string) (*models.Competition, error) {
	competition, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return competition, nil
}

// Featured returns up to limit featured competitions, newest first
func (s *CompetitionService) Featured(ctx context.Context, limit int) ([]models.Competition, error) {
	if limit <= 0 {
		limit = s.featuredLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.ListFeaturedCompetitions(ctx, limit)
}

// ListByOrganization returns the competitions hosted by an organization
func (s *CompetitionService) ListByOrganization(ctx context.Context, organizationID string) ([]models.Competition, error) {
	if _, err := s.store.GetOrganization(ctx, organizationID); err != nil {
		return nil, notFoundAs(err, ErrOrganizationNotFound)
	}
	return s.store.ListCompetitionsByOrganization(ctx, organizationID)
}

// Create stores a new competition for the organization owned by actor
func (s *CompetitionService) Create(ctx context.Context, actor *models.User, in CreateCompetitionInput) (*models.Competition, error) {
	// Step 1: the acting user must own an organization
	org, err := s.store.GetOrganizationByUserID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrOrganizationRequired)
	}

	// Step 2: validate the input
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrInvalidRequest
	}
	if !in.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !in.StartDate.Before(in.EndDate) || in.SubmissionDeadline.After(in.EndDate) {
		return nil, ErrInvalidDates
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		return nil, ErrInvalidRequest
	}
	status := models.DeriveStatus(in.StartDate, in.EndDate, s.now())
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *in.Status
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	// Step 3: insert, always unapproved and not featured
	competition := &models.Competition{
		OrganizationID:     org.ID,
		Title:              strings.TrimSpace(in.Title),
		Description:        in.Description,
		Category:           in.Category,
		Tags:               normalizeTags(in.Tags),
		PrizeAmount:        in.PrizeAmount,
		Currency:           strings.ToUpper(strings.TrimSpace(in.Currency)),
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		SubmissionDeadline: in.SubmissionDeadline,
		IsPublic:           isPublic,
		IsApproved:         false,
		IsFeatured:         false,
		MaxParticipants:    in.MaxParticipants,
		EvaluationMetric:   in.EvaluationMetric,
		DatasetURL:         in.DatasetURL,
		Rules:              in.Rules,
		Status:             status,
	}
	if err := s.store.CreateCompetition(ctx, competition); err != nil {
		return nil, err
	}
	metrics.CompetitionsCreated.Inc()

	created, err := s.store.GetCompetition(ctx, competition.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.CompetitionCreated(notifyCtx, created, org); err != nil {
				log.WithField("competition_id", created.ID).Warnf("Failed to notify moderators: %v", err)
			}
		}()
	}
	return created, nil
}

// SetApproval marks a competition approved or not (administrators only)
func (s *CompetitionService) SetApproval(ctx context.Context, actor *models.User, id string, approved bool) (*models.Competition, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.update(ctx, id, map[string]interface{}{"is_approved": approved})
}

// SetFeatured toggles the editorial featured flag (administrators only)
func (s *CompetitionService) SetFeatured(ctx context.Context, actor *models.User, id string, featured bool) (*models.Competition, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.update(ctx, id, map[string]interface{}{"is_featured": featured})
}

// UpdateStatus sets the lifecycle status. The first move into completed awards
// points to the ranked participants; later transitions never award again.
func (s *CompetitionService) UpdateStatus(ctx context.Context, actor *models.User, id string, status models.CompetitionStatus) (*models.Competition, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	competition, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canManageCompetition(ctx, s.store, actor, competition); err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, err
	}
	if status == models.StatusCompleted && updated.PointsAwardedAt == nil {
		if err := s.awardPoints(ctx, id); err != nil {
			return nil, err
		}
		return s.Get(ctx, id)
	}
	return updated, nil
}

func (s *CompetitionService) awardPoints(ctx context.Context, competitionID string) error {
	participants, err := s.store.ListParticipantsByCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	awards := make(map[string]int, len(participants))
	for _, p := range participants {
		if p.Rank == nil || p.IsDisqualified {
			continue
		}
		if points := utils.PointsForRank(*p.Rank); points > 0 {
			awards[p.UserID] += points
		}
	}

	awarded, err := s.store.AwardCompetitionPoints(ctx, competitionID, awards)
	if err != nil {
		return notFoundAs(err, ErrCompetitionNotFound)
	}
	if !awarded {
		return nil
	}
	log.WithFields(log.Fields{"competition_id": competitionID, "users": len(awards)}).Info("Awarded competition points")

	// cached users carry their points
	if s.invalidator != nil {
		for userID := range awards {
			s.invalidator.InvalidateUser(ctx, userID)
		}
	}
	return nil
}

func (s *CompetitionService) update(ctx context.Context, id string, fields map[string]interface{}) (*models.Competition, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	competition, err := s.store.UpdateCompetition(ctx, id, fields)
	if err != nil {
		return nil, notFoundAs(err, ErrCompetitionNotFound)
	}
	return competition, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		out = append(out, tag)
	}
	return out
}

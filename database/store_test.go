package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"viemind/models"
	"viemind/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := OpenSQLite(dsn, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	user := &models.User{Email: name + "@example.com", Username: name, Password: "hash"}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func seedOrganization(t *testing.T, s *Store, owner *models.User) *models.Organization {
	t.Helper()
	org := &models.Organization{UserID: owner.ID, Name: owner.Username + " Labs"}
	if err := s.CreateOrganization(context.Background(), org); err != nil {
		t.Fatalf("create organization: %v", err)
	}
	return org
}

func seedCompetition(t *testing.T, s *Store, org *models.Organization, title string, featured bool) *models.Competition {
	t.Helper()
	start := time.Now().Add(-time.Hour)
	competition := &models.Competition{
		OrganizationID:     org.ID,
		Title:              title,
		Description:        "predict things",
		Category:           models.CategoryNLP,
		StartDate:          start,
		EndDate:            start.Add(30 * 24 * time.Hour),
		SubmissionDeadline: start.Add(29 * 24 * time.Hour),
		IsPublic:           true,
		IsFeatured:         featured,
		Status:             models.StatusOngoing,
	}
	if err := s.CreateCompetition(context.Background(), competition); err != nil {
		t.Fatalf("create competition: %v", err)
	}
	return competition
}

func seedParticipant(t *testing.T, s *Store, user *models.User, competition *models.Competition) *models.Participant {
	t.Helper()
	participant := &models.Participant{UserID: user.ID, CompetitionID: competition.ID}
	if err := s.CreateParticipant(context.Background(), participant); err != nil {
		t.Fatalf("create participant: %v", err)
	}
	return participant
}

func TestUserUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedUser(t, s, "alice")

	// Given an existing user, when another registers with the same email
	err := s.CreateUser(ctx, &models.User{Email: "alice@example.com", Username: "other"})
	// Then the store reports a duplicate
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for email, got %v", err)
	}

	err = s.CreateUser(ctx, &models.User{Email: "other@example.com", Username: "alice"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for username, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserKeepsOtherFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, s, "bob")

	updated, err := s.UpdateUser(ctx, user.ID, map[string]interface{}{"bio": "x"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Bio != "x" {
		t.Errorf("expected bio x, got %q", updated.Bio)
	}
	if updated.Email != user.Email || updated.Username != user.Username || updated.Role != models.RoleUser {
		t.Errorf("unexpected change in untouched fields: %+v", updated)
	}
}

func TestAwardCompetitionPoints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, s, "carol")
	other := seedUser(t, s, "erin")
	competition := seedCompetition(t, s, seedOrganization(t, s, seedUser(t, s, "host")), "Awarded", false)

	awarded, err := s.AwardCompetitionPoints(ctx, competition.ID, map[string]int{user.ID: 20, other.ID: 5})
	if err != nil || !awarded {
		t.Fatalf("AwardCompetitionPoints: %v %v", awarded, err)
	}
	// A second award for the same competition is a no-op
	awarded, err = s.AwardCompetitionPoints(ctx, competition.ID, map[string]int{user.ID: 20})
	if err != nil || awarded {
		t.Fatalf("expected repeat award to be skipped, got %v %v", awarded, err)
	}
	got, _ := s.GetUser(ctx, user.ID)
	if got.Points != 20 {
		t.Errorf("expected 20 points, got %d", got.Points)
	}
	marked, _ := s.GetCompetition(ctx, competition.ID)
	if marked.PointsAwardedAt == nil {
		t.Error("expected the competition to carry the award marker")
	}
	if _, err := s.AwardCompetitionPoints(ctx, "missing", nil); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	top, err := s.GetTopUsers(ctx, 10)
	if err != nil || len(top) != 3 || top[0].ID != user.ID || top[1].ID != other.ID {
		t.Errorf("unexpected top users: %v %v", top, err)
	}
}

func TestCreateOrganizationPromotesOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, s, "dave")
	seedOrganization(t, s, owner)

	got, err := s.GetUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Role != models.RoleOrganization {
		t.Errorf("expected organization role, got %s", got.Role)
	}

	err = s.CreateOrganization(ctx, &models.Organization{UserID: owner.ID, Name: "Second"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a second organization, got %v", err)
	}
}

func TestParticipantCountIsDerived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Sentiment", false)

	got, err := s.GetCompetition(ctx, competition.ID)
	if err != nil {
		t.Fatalf("GetCompetition: %v", err)
	}
	if got.CurrentParticipants != 0 {
		t.Fatalf("expected no participants, got %d", got.CurrentParticipants)
	}
	if got.Organization == nil || got.Organization.ID != org.ID {
		t.Errorf("expected organization to be preloaded")
	}

	seedParticipant(t, s, seedUser(t, s, "p1"), competition)
	seedParticipant(t, s, seedUser(t, s, "p2"), competition)

	got, _ = s.GetCompetition(ctx, competition.ID)
	if got.CurrentParticipants != 2 {
		t.Errorf("expected 2 participants, got %d", got.CurrentParticipants)
	}
}

func TestDuplicateJoinRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Vision", false)
	user := seedUser(t, s, "eve")
	seedParticipant(t, s, user, competition)

	err := s.CreateParticipant(ctx, &models.Participant{UserID: user.ID, CompetitionID: competition.ID})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestListCompetitionsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	first := seedCompetition(t, s, org, "First", true)
	time.Sleep(10 * time.Millisecond)
	second := seedCompetition(t, s, org, "Second", false)

	all, err := s.ListCompetitions(ctx, storage.CompetitionFilter{})
	if err != nil {
		t.Fatalf("ListCompetitions: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}

	featured := true
	got, _ := s.ListCompetitions(ctx, storage.CompetitionFilter{Featured: &featured})
	if len(got) != 1 || got[0].ID != first.ID {
		t.Errorf("featured=true: unexpected %+v", got)
	}

	notFeatured := false
	got, _ = s.ListCompetitions(ctx, storage.CompetitionFilter{Featured: &notFeatured})
	if len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("featured=false: unexpected %+v", got)
	}

	tabular := models.CategoryTabular
	got, _ = s.ListCompetitions(ctx, storage.CompetitionFilter{Category: &tabular})
	if len(got) != 0 {
		t.Errorf("category filter: expected none, got %d", len(got))
	}

	top, _ := s.ListFeaturedCompetitions(ctx, 6)
	if len(top) != 1 {
		t.Errorf("expected one featured competition, got %d", len(top))
	}

	hosted, _ := s.ListCompetitionsByOrganization(ctx, org.ID)
	if len(hosted) != 2 {
		t.Errorf("expected two hosted competitions, got %d", len(hosted))
	}
}

func TestCreateSubmissionDerivesCompetition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Tabular", false)
	participant := seedParticipant(t, s, seedUser(t, s, "frank"), competition)

	submission := &models.Submission{
		ParticipantID: participant.ID,
		CompetitionID: "forged",
		FileName:      "preds.csv",
		FileURL:       "/uploads/preds.csv",
		IsPublic:      true,
	}
	if err := s.CreateSubmission(ctx, submission); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if submission.CompetitionID != competition.ID {
		t.Errorf("expected competition id from participant, got %s", submission.CompetitionID)
	}

	updated, _ := s.GetParticipantByID(ctx, participant.ID)
	if updated.LastSubmissionAt == nil {
		t.Error("expected lastSubmissionAt to be set")
	}

	err := s.CreateSubmission(ctx, &models.Submission{ParticipantID: "missing", FileName: "x", FileURL: "x"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown participant, got %v", err)
	}
}

func TestLeaderboardOrderingAndRanks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Ranked", false)
	a := seedParticipant(t, s, seedUser(t, s, "a"), competition)
	b := seedParticipant(t, s, seedUser(t, s, "b"), competition)
	c := seedParticipant(t, s, seedUser(t, s, "c"), competition)

	base := time.Now().Add(-time.Hour)
	submit := func(p *models.Participant, offset time.Duration) *models.Submission {
		sub := &models.Submission{ParticipantID: p.ID, FileName: "f.csv", FileURL: "/uploads/f.csv", SubmittedAt: base.Add(offset)}
		if err := s.CreateSubmission(ctx, sub); err != nil {
			t.Fatalf("CreateSubmission: %v", err)
		}
		return sub
	}
	unscored := submit(c, 0)
	first := submit(a, time.Minute)
	second := submit(b, 2*time.Minute)
	third := submit(b, 3*time.Minute)

	if _, err := s.ScoreSubmission(ctx, first.ID, 0.8, ""); err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}
	if _, err := s.ScoreSubmission(ctx, second.ID, 0.8, ""); err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}
	scored, err := s.ScoreSubmission(ctx, third.ID, 0.6, "ok")
	if err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}
	if scored.Score == nil || *scored.Score != 0.6 || scored.Feedback != "ok" {
		t.Errorf("unexpected scored submission %+v", scored)
	}

	// Then scores sort descending, ties go to the earliest submission and nulls come last
	board, err := s.Leaderboard(ctx, competition.ID, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	want := []string{first.ID, second.ID, third.ID, unscored.ID}
	if len(board) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(board))
	}
	for i, id := range want {
		if board[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, board[i].ID)
		}
	}
	if board[0].Participant == nil || board[0].Participant.User == nil {
		t.Error("expected participant and user to be preloaded")
	}

	limited, _ := s.Leaderboard(ctx, competition.ID, 2)
	if len(limited) != 2 {
		t.Errorf("expected limit to cap entries, got %d", len(limited))
	}

	// A worse second submission leaves the best score alone; equal best scores share a rank
	pb, _ := s.GetParticipantByID(ctx, b.ID)
	if pb.BestScore == nil || *pb.BestScore != 0.8 {
		t.Errorf("expected b best score 0.8, got %v", pb.BestScore)
	}
	pa, _ := s.GetParticipantByID(ctx, a.ID)
	if pa.Rank == nil || *pa.Rank != 1 || pb.Rank == nil || *pb.Rank != 1 {
		t.Errorf("expected shared rank 1, got a=%v b=%v", pa.Rank, pb.Rank)
	}
	pc, _ := s.GetParticipantByID(ctx, c.ID)
	if pc.Rank != nil {
		t.Errorf("expected unscored participant to be unranked, got %d", *pc.Rank)
	}

	// Disqualifying a participant removes its rank after a recompute
	if _, err := s.UpdateParticipant(ctx, a.ID, map[string]interface{}{"is_disqualified": true}); err != nil {
		t.Fatalf("UpdateParticipant: %v", err)
	}
	if err := s.RecomputeRanks(ctx, competition.ID); err != nil {
		t.Fatalf("RecomputeRanks: %v", err)
	}
	pa, _ = s.GetParticipantByID(ctx, a.ID)
	pb, _ = s.GetParticipantByID(ctx, b.ID)
	if pa.Rank != nil || pb.Rank == nil || *pb.Rank != 1 {
		t.Errorf("unexpected ranks after disqualification: a=%v b=%v", pa.Rank, pb.Rank)
	}

	ranked, _ := s.ListParticipantsByCompetition(ctx, competition.ID)
	if len(ranked) != 3 || ranked[0].ID != b.ID {
		t.Errorf("expected ranked participant first, got %+v", ranked)
	}
}

func TestRegradeLowersBestScore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Regrade", false)
	a := seedParticipant(t, s, seedUser(t, s, "a"), competition)
	b := seedParticipant(t, s, seedUser(t, s, "b"), competition)

	base := time.Now().Add(-time.Hour)
	sa := &models.Submission{ParticipantID: a.ID, FileName: "a.csv", FileURL: "/uploads/a.csv", SubmittedAt: base}
	sa2 := &models.Submission{ParticipantID: a.ID, FileName: "a2.csv", FileURL: "/uploads/a2.csv", SubmittedAt: base.Add(time.Minute)}
	sb := &models.Submission{ParticipantID: b.ID, FileName: "b.csv", FileURL: "/uploads/b.csv", SubmittedAt: base.Add(2 * time.Minute)}
	for _, sub := range []*models.Submission{sa, sa2, sb} {
		if err := s.CreateSubmission(ctx, sub); err != nil {
			t.Fatalf("CreateSubmission: %v", err)
		}
	}
	for id, score := range map[string]float64{sa.ID: 0.9, sa2.ID: 0.4, sb.ID: 0.7} {
		if _, err := s.ScoreSubmission(ctx, id, score, ""); err != nil {
			t.Fatalf("ScoreSubmission: %v", err)
		}
	}
	pa, _ := s.GetParticipantByID(ctx, a.ID)
	if pa.BestScore == nil || *pa.BestScore != 0.9 || pa.Rank == nil || *pa.Rank != 1 {
		t.Fatalf("expected a best 0.9 rank 1, got %v %v", pa.BestScore, pa.Rank)
	}

	// Regrading the best submission falls back to the next best one
	if _, err := s.ScoreSubmission(ctx, sa.ID, 0.5, "regraded"); err != nil {
		t.Fatalf("ScoreSubmission: %v", err)
	}
	pa, _ = s.GetParticipantByID(ctx, a.ID)
	pb, _ := s.GetParticipantByID(ctx, b.ID)
	if pa.BestScore == nil || *pa.BestScore != 0.5 {
		t.Errorf("expected a best score 0.5 after regrade, got %v", pa.BestScore)
	}
	if pb.Rank == nil || *pb.Rank != 1 || pa.Rank == nil || *pa.Rank != 2 {
		t.Errorf("expected b to overtake a, got a=%v b=%v", pa.Rank, pb.Rank)
	}

	board, _ := s.Leaderboard(ctx, competition.ID, 10)
	if len(board) != 3 || board[0].ID != sb.ID {
		t.Errorf("expected b's submission to lead the leaderboard, got %+v", board)
	}
}

func TestListParticipantsByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	org := seedOrganization(t, s, seedUser(t, s, "host"))
	competition := seedCompetition(t, s, org, "Mine", false)
	user := seedUser(t, s, "gina")
	seedParticipant(t, s, user, competition)

	enrollments, err := s.ListParticipantsByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListParticipantsByUser: %v", err)
	}
	if len(enrollments) != 1 || enrollments[0].Competition == nil {
		t.Fatalf("expected one enrollment with competition, got %+v", enrollments)
	}
	if enrollments[0].Competition.CurrentParticipants != 1 {
		t.Errorf("expected derived count 1, got %d", enrollments[0].Competition.CurrentParticipants)
	}
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := seedUser(t, s, "henry")
	now := time.Now()

	live := &models.Session{UserID: user.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}
	stale := &models.Session{UserID: user.ID, Token: "stale", ExpiresAt: now.Add(-time.Hour)}
	for _, session := range []*models.Session{live, stale} {
		if err := s.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	got, err := s.GetSession(ctx, "live")
	if err != nil || got.User == nil || got.User.ID != user.ID {
		t.Fatalf("expected session with user, got %+v %v", got, err)
	}

	removed, err := s.DeleteExpiredSessions(ctx, now)
	if err != nil || removed != 1 {
		t.Fatalf("expected one expired session removed, got %d %v", removed, err)
	}
	if _, err := s.GetSession(ctx, "stale"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected stale session gone, got %v", err)
	}

	if err := s.DeleteSession(ctx, "live"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSession(ctx, "live"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected live session gone, got %v", err)
	}
}

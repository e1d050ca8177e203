package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"viemind/models"

	"github.com/xuri/excelize/v2"
)

// Export builds an xlsx workbook with the leaderboard and participants of a
// competition. Only the owning organization and administrators may export.
func (s *CompetitionService) Export(ctx context.Context, actor *models.User, id, locale string) (*bytes.Buffer, string, error) {
	competition, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := canManageCompetition(ctx, s.store, actor, competition); err != nil {
		return nil, "", err
	}

	submissions, err := s.store.Leaderboard(ctx, id, maxExportRows)
	if err != nil {
		return nil, "", err
	}
	participants, err := s.store.ListParticipantsByCompetition(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	leaderboardSheet := s.translator.T(locale, "export.sheet.leaderboard", nil)
	participantsSheet := s.translator.T(locale, "export.sheet.participants", nil)

	if err := f.SetSheetName("Sheet1", leaderboardSheet); err != nil {
		return nil, "", err
	}
	if _, err := f.NewSheet(participantsSheet); err != nil {
		return nil, "", err
	}

	if err := writeRows(f, leaderboardSheet, leaderboardRows(submissions)); err != nil {
		return nil, "", err
	}
	if err := writeRows(f, participantsSheet, participantRows(participants)); err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("competition-%s-%s.xlsx", competition.ID, s.now().Format("20060102"))
	return buf, filename, nil
}

const maxExportRows = 10000

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func leaderboardRows(submissions []models.Submission) [][]interface{} {
	rows := [][]interface{}{{"#", "Username", "Team", "Score", "File", "Submitted at"}}
	for i, sub := range submissions {
		username, team := "", ""
		if sub.Participant != nil {
			team = sub.Participant.TeamName
			if sub.Participant.User != nil {
				username = sub.Participant.User.Username
			}
		}
		rows = append(rows, []interface{}{
			i + 1,
			username,
			team,
			optionalFloat(sub.Score),
			sub.FileName,
			sub.SubmittedAt.Format(time.RFC3339),
		})
	}
	return rows
}

func participantRows(participants []models.Participant) [][]interface{} {
	rows := [][]interface{}{{"Rank", "Username", "Full name", "Team", "Best score", "Joined at", "Last submission", "Disqualified"}}
	for _, p := range participants {
		username, fullName := "", ""
		if p.User != nil {
			username = p.User.Username
			fullName = p.User.FullName
		}
		var rank interface{} = ""
		if p.Rank != nil {
			rank = *p.Rank
		}
		lastSubmission := ""
		if p.LastSubmissionAt != nil {
			lastSubmission = p.LastSubmissionAt.Format(time.RFC3339)
		}
		rows = append(rows, []interface{}{
			rank,
			username,
			fullName,
			p.TeamName,
			optionalFloat(p.BestScore),
			p.JoinedAt.Format(time.RFC3339),
			lastSubmission,
			p.IsDisqualified,
		})
	}
	return rows
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

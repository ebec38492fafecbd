package stats

import (
	"sort"

	"github.com/RubachokBoss/internhub/internal/models"
)

type LeaderboardEntry struct {
	Rank            int             `json:"rank"`
	InternID        models.InternID `json:"intern_id"`
	Name            string          `json:"name"`
	Submissions     int             `json:"submissions"`
	AverageGrade    float64         `json:"average_grade"`
	UsedGPAFallback bool            `json:"used_gpa_fallback"`
	Score           float64         `json:"score"`
}

type Leaderboard struct {
	Batch   string             `json:"batch,omitempty"`
	NoBatch bool               `json:"no_batch"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Leaderboard ранжирует интернов одного batch. С оценками score = submissions*10 +
// avg*2, без оценок avg = gpa*25 и входит в score с весом 1. Равные score сохраняют
// порядок снапшота.
func (a *Aggregator) Leaderboard(internID models.InternID) (*Leaderboard, error) {
	intern, ok := a.res.Intern(internID)
	if !ok {
		return nil, models.ErrInternNotFound
	}

	board := &Leaderboard{Batch: intern.Batch, Entries: []LeaderboardEntry{}}
	if intern.Batch == "" {
		board.NoBatch = true
		return board, nil
	}

	for _, peer := range a.snap.Interns {
		if peer.Batch != intern.Batch {
			continue
		}
		board.Entries = append(board.Entries, a.scoreEntry(peer))
	}

	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].Score > board.Entries[j].Score
	})
	for i := range board.Entries {
		board.Entries[i].Rank = i + 1
	}

	return board, nil
}

func (a *Aggregator) scoreEntry(intern models.Intern) LeaderboardEntry {
	e := LeaderboardEntry{
		InternID:    intern.UID,
		Name:        intern.DisplayName(),
		Submissions: a.SubmissionCount(intern.UID),
	}

	if avg, ok := a.AverageGrade(intern.UID); ok {
		e.AverageGrade = float64(avg)
		e.Score = float64(e.Submissions*10) + e.AverageGrade*2
		return e
	}

	e.AverageGrade = intern.GPA * 25
	e.UsedGPAFallback = true
	e.Score = float64(e.Submissions*10) + e.AverageGrade
	return e
}

// Package stats считает производные метрики дашборда и лидерборда по снапшоту.
package stats

import (
	"math"
	"strconv"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
)

type Aggregator struct {
	res  *resolver.Resolver
	snap *models.Snapshot
}

func New(res *resolver.Resolver) *Aggregator {
	return &Aggregator{
		res:  res,
		snap: res.Snapshot(),
	}
}

type Progress struct {
	TotalAssignments     int `json:"total_assignments"`
	CompletedAssignments int `json:"completed_assignments"`
	OverallProgress      int `json:"overall_progress"`
}

// DashboardAssignments — задания, которые дашборд засчитывает интерну: аудитория
// all или individual с его uid. Групповые задания сюда не попадают.
func (a *Aggregator) DashboardAssignments(internID models.InternID) []models.Assignment {
	var visible []models.Assignment
	for _, as := range a.snap.Assignments {
		if as.TargetAudience == models.AudienceGroup {
			continue
		}
		if a.res.Includes(as.TargetAudience, as.TargetIDs, internID) {
			visible = append(visible, as)
		}
	}
	return visible
}

// AssignmentProgress: completed — число сданных ссылок интерна без привязки к
// конкретному заданию, поэтому прогресс может превышать 100.
func (a *Aggregator) AssignmentProgress(internID models.InternID) Progress {
	p := Progress{
		TotalAssignments:     len(a.DashboardAssignments(internID)),
		CompletedAssignments: a.SubmissionCount(internID),
	}
	if p.TotalAssignments > 0 {
		p.OverallProgress = int(math.Round(float64(p.CompletedAssignments) / float64(p.TotalAssignments) * 100))
	}
	return p
}

// SubmissionCount считает записи submissions интерна типов github и drive.
func (a *Aggregator) SubmissionCount(internID models.InternID) int {
	n := 0
	for _, s := range a.snap.Submissions {
		if s.InternID != internID {
			continue
		}
		if s.Type == models.SubmissionTypeGithub || s.Type == models.SubmissionTypeDrive {
			n++
		}
	}
	return n
}

func (a *Aggregator) AverageGrade(internID models.InternID) (int, bool) {
	return AverageGrade(a.snap.Grades, internID)
}

// AverageGrade = round(mean(grade/maxGrade*100)). Записи с maxGrade <= 0 не учитываются.
func AverageGrade(grades []models.Grade, internID models.InternID) (int, bool) {
	var (
		sum float64
		n   int
	)
	for _, g := range grades {
		if g.InternID != internID || g.MaxGrade <= 0 {
			continue
		}
		sum += g.Grade / g.MaxGrade * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(sum / float64(n))), true
}

// DashboardGrade — оценка для дашборда, без подстановки GPA.
type DashboardGrade struct {
	Value     int  `json:"value"`
	Available bool `json:"available"`
}

func (g DashboardGrade) String() string {
	if !g.Available {
		return "N/A"
	}
	return strconv.Itoa(g.Value) + "%"
}

func (a *Aggregator) DashboardGrade(internID models.InternID) DashboardGrade {
	v, ok := a.AverageGrade(internID)
	return DashboardGrade{Value: v, Available: ok}
}

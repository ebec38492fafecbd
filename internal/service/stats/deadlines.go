package stats

import (
	"math"
	"sort"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
)

type DeadlineKind string

const (
	DeadlineAssignment DeadlineKind = "assignment"
	DeadlineProject    DeadlineKind = "project"
)

// UpcomingWindowDays — горизонт блока ближайших дедлайнов.
const UpcomingWindowDays = 7

type Deadline struct {
	Kind     DeadlineKind `json:"kind"`
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Deadline time.Time    `json:"deadline"`
	DaysLeft int          `json:"days_left"`
}

// DaysUntil — число дней до дедлайна с округлением вверх.
func DaysUntil(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// ProjectsOf — проекты интерна: назначенные лично или его группе.
func (a *Aggregator) ProjectsOf(internID models.InternID) []models.Project {
	group, hasGroup := a.res.GroupOf(internID)

	var projects []models.Project
	for _, p := range a.snap.Projects {
		for _, id := range p.AssignedIDs {
			personal := p.AssignedTo == models.AssignedToIndividual && models.InternID(id) == internID
			viaGroup := p.AssignedTo == models.AssignedToGroup && hasGroup && models.GroupID(id) == group.ID
			if personal || viaGroup {
				projects = append(projects, p)
				break
			}
		}
	}
	return projects
}

// UpcomingDeadlines возвращает задания и незавершенные проекты со сроком через
// 0..7 дней, по возрастанию оставшихся дней. limit <= 0 — без ограничения.
func (a *Aggregator) UpcomingDeadlines(internID models.InternID, now time.Time, limit int) []Deadline {
	deadlines := []Deadline{}

	for _, as := range a.DashboardAssignments(internID) {
		days := DaysUntil(as.Deadline, now)
		if days < 0 || days > UpcomingWindowDays {
			continue
		}
		deadlines = append(deadlines, Deadline{
			Kind:     DeadlineAssignment,
			ID:       string(as.ID),
			Title:    as.Title,
			Deadline: as.Deadline,
			DaysLeft: days,
		})
	}

	for _, p := range a.ProjectsOf(internID) {
		if p.Status == models.ProjectStatusCompleted {
			continue
		}
		days := DaysUntil(p.Deadline, now)
		if days < 0 || days > UpcomingWindowDays {
			continue
		}
		deadlines = append(deadlines, Deadline{
			Kind:     DeadlineProject,
			ID:       string(p.ID),
			Title:    p.Title,
			Deadline: p.Deadline,
			DaysLeft: days,
		})
	}

	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DaysLeft < deadlines[j].DaysLeft
	})

	if limit > 0 && len(deadlines) > limit {
		deadlines = deadlines[:limit]
	}
	return deadlines
}

package service

import (
	"context"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/stats"
	"github.com/rs/zerolog"
)

// DashboardDeadlineLimit — сколько ближайших дедлайнов показывает дашборд.
const DashboardDeadlineLimit = 3

type InternDashboard struct {
	Intern            models.Intern        `json:"intern"`
	GroupID           models.GroupID       `json:"group_id,omitempty"`
	GroupName         string               `json:"group_name,omitempty"`
	SupervisorID      models.SupervisorID  `json:"supervisor_id,omitempty"`
	SupervisorName    string               `json:"supervisor_name,omitempty"`
	Progress          stats.Progress       `json:"progress"`
	AverageGrade      stats.DashboardGrade `json:"average_grade"`
	AverageGradeLabel string               `json:"average_grade_label"`
	UpcomingDeadlines []stats.Deadline     `json:"upcoming_deadlines"`
	NoBatch           bool                 `json:"no_batch"`
}

type DashboardService interface {
	InternDashboard(ctx context.Context, internID models.InternID) (*InternDashboard, error)
	Leaderboard(ctx context.Context, internID models.InternID) (*stats.Leaderboard, error)
	SupervisorOverview(ctx context.Context, supervisorID models.SupervisorID) (*stats.SupervisorOverview, error)
	AdminOverview(ctx context.Context) (*stats.AdminOverview, error)
}

type dashboardService struct {
	loader *repository.SnapshotLoader
	logger zerolog.Logger
	now    func() time.Time
}

func NewDashboardService(loader *repository.SnapshotLoader, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		loader: loader,
		logger: logger,
		now:    time.Now,
	}
}

func (s *dashboardService) InternDashboard(ctx context.Context, internID models.InternID) (*InternDashboard, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	intern, ok := v.res.Intern(internID)
	if !ok {
		return nil, models.ErrInternNotFound
	}

	agg := stats.New(v.res)
	grade := agg.DashboardGrade(internID)

	d := &InternDashboard{
		Intern:            *intern,
		Progress:          agg.AssignmentProgress(internID),
		AverageGrade:      grade,
		AverageGradeLabel: grade.String(),
		UpcomingDeadlines: agg.UpcomingDeadlines(internID, s.now(), DashboardDeadlineLimit),
		NoBatch:           intern.Batch == "",
	}

	if g, ok := v.res.GroupOf(internID); ok {
		d.GroupID = g.ID
		d.GroupName = g.Name
		d.SupervisorID = g.SupervisorID
		d.SupervisorName = v.res.SupervisorName(g.SupervisorID)
	}

	return d, nil
}

func (s *dashboardService) Leaderboard(ctx context.Context, internID models.InternID) (*stats.Leaderboard, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	return stats.New(v.res).Leaderboard(internID)
}

func (s *dashboardService) SupervisorOverview(ctx context.Context, supervisorID models.SupervisorID) (*stats.SupervisorOverview, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	return stats.New(v.res).SupervisorOverview(supervisorID, s.now())
}

func (s *dashboardService) AdminOverview(ctx context.Context) (*stats.AdminOverview, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	overview := stats.New(v.res).AdminOverview()
	if len(overview.DuplicateMemberships) > 0 {
		s.logger.Warn().
			Int("interns", len(overview.DuplicateMemberships)).
			Msg("Interns claimed by more than one group")
	}
	return overview, nil
}

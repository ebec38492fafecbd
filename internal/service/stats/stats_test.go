package stats

import (
	"testing"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func grade(intern models.InternID, g, max float64) models.Grade {
	return models.Grade{InternID: intern, Grade: g, MaxGrade: max}
}

func submission(id string, intern models.InternID, t models.SubmissionType) models.Submission {
	return models.Submission{ID: models.SubmissionID(id), InternID: intern, Type: t}
}

func aggregator(snap *models.Snapshot) *Aggregator {
	return New(resolver.New(snap))
}

func TestAverageGrade(t *testing.T) {
	tests := []struct {
		name   string
		grades []models.Grade
		want   int
		wantOK bool
	}{
		{
			name:   "mean of percentages",
			grades: []models.Grade{grade("X", 80, 100), grade("X", 45, 50)},
			want:   85,
			wantOK: true,
		},
		{
			name:   "rounds half away from zero",
			grades: []models.Grade{grade("X", 1, 8)},
			want:   13,
			wantOK: true,
		},
		{
			name:   "ignores other interns and zero max",
			grades: []models.Grade{grade("Y", 10, 100), grade("X", 5, 0), grade("X", 7, 10)},
			want:   70,
			wantOK: true,
		},
		{
			name:   "no grades",
			grades: []models.Grade{grade("Y", 10, 100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AverageGrade(tt.grades, "X")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardGrade_NoFallback(t *testing.T) {
	a := aggregator(&models.Snapshot{
		Interns: []models.Intern{{UID: "X", GPA: 4, Batch: "2024"}},
	})

	g := a.DashboardGrade("X")
	assert.False(t, g.Available)
	assert.Equal(t, 0, g.Value)
	assert.Equal(t, "N/A", g.String())

	a = aggregator(&models.Snapshot{
		Interns: []models.Intern{{UID: "X"}},
		Grades:  []models.Grade{grade("X", 80, 100), grade("X", 45, 50)},
	})
	assert.Equal(t, "85%", a.DashboardGrade("X").String())
}

func TestAssignmentProgress(t *testing.T) {
	snap := &models.Snapshot{
		Interns: []models.Intern{{UID: "X"}, {UID: "Y"}},
		Groups:  []models.Group{{ID: "G1", InternIDs: []models.InternID{"X"}}},
		Assignments: []models.Assignment{
			{ID: "a1", TargetAudience: models.AudienceAll},
			{ID: "a2", TargetAudience: models.AudienceIndividual, TargetIDs: []string{"X", "Y"}},
			{ID: "a3", TargetAudience: models.AudienceIndividual, TargetIDs: []string{"Y"}},
			{ID: "a4", TargetAudience: models.AudienceGroup, TargetIDs: []string{"G1"}},
		},
		Submissions: []models.Submission{
			submission("s1", "X", models.SubmissionTypeGithub),
			submission("s2", "X", models.SubmissionTypeDrive),
			submission("s3", "X", models.SubmissionTypeDrive),
			submission("s4", "Y", models.SubmissionTypeGithub),
			submission("s5", "X", "email"),
		},
	}
	a := aggregator(snap)

	p := a.AssignmentProgress("X")
	assert.Equal(t, Progress{TotalAssignments: 2, CompletedAssignments: 3, OverallProgress: 150}, p)

	p = a.AssignmentProgress("Y")
	assert.Equal(t, Progress{TotalAssignments: 3, CompletedAssignments: 1, OverallProgress: 33}, p)

	empty := aggregator(&models.Snapshot{Interns: []models.Intern{{UID: "Z"}}})
	assert.Equal(t, Progress{}, empty.AssignmentProgress("Z"))
}

func TestGroupAssignmentResolvesButIsNotCounted(t *testing.T) {
	snap := &models.Snapshot{
		Interns:     []models.Intern{{UID: "X"}},
		Groups:      []models.Group{{ID: "G1", InternIDs: []models.InternID{"X"}}},
		Assignments: []models.Assignment{{ID: "a1", TargetAudience: models.AudienceGroup, TargetIDs: []string{"G1"}}},
	}
	res := resolver.New(snap)
	a := New(res)

	set := res.ResolveTargets(models.AudienceGroup, []string{"G1"})
	assert.True(t, set.Contains("X"))
	assert.Equal(t, 0, a.AssignmentProgress("X").TotalAssignments)
	assert.Empty(t, a.DashboardAssignments("X"))
}

func TestLeaderboard(t *testing.T) {
	snap := &models.Snapshot{
		Interns: []models.Intern{
			{UID: "a", Name: "Ann", Batch: "2024", GPA: 3.2},
			{UID: "b", Name: "Ben", Batch: "2024", GPA: 2.0},
			{UID: "c", Name: "Cid", Batch: "2024", GPA: 4.0},
			{UID: "d", Name: "Dot", Batch: "2023", GPA: 4.0},
			{UID: "e", Name: "Eve", Batch: "2024", GPA: 2.0},
		},
		Grades: []models.Grade{
			grade("a", 90, 100),
			grade("b", 40, 100),
		},
		Submissions: []models.Submission{
			submission("s1", "a", models.SubmissionTypeGithub),
			submission("s2", "b", models.SubmissionTypeGithub),
			submission("s3", "b", models.SubmissionTypeDrive),
			submission("s4", "e", models.SubmissionTypeDrive),
			submission("s5", "e", models.SubmissionTypeDrive),
			submission("s6", "e", models.SubmissionTypeDrive),
		},
	}

	board, err := aggregator(snap).Leaderboard("b")
	require.NoError(t, err)
	assert.Equal(t, "2024", board.Batch)
	assert.False(t, board.NoBatch)

	// a: 10 + 90*2 = 190; b: 20 + 40*2 = 100; c: 0 + 4*25 = 100; e: 30 + 2*25 = 80
	require.Len(t, board.Entries, 4)
	ids := []models.InternID{}
	for _, e := range board.Entries {
		ids = append(ids, e.InternID)
	}
	assert.Equal(t, []models.InternID{"a", "b", "c", "e"}, ids)
	assert.Equal(t, 190.0, board.Entries[0].Score)
	assert.Equal(t, 100.0, board.Entries[1].Score)
	assert.False(t, board.Entries[1].UsedGPAFallback)
	assert.Equal(t, 100.0, board.Entries[2].Score)
	assert.True(t, board.Entries[2].UsedGPAFallback)
	assert.Equal(t, 100.0, board.Entries[2].AverageGrade)
	assert.Equal(t, 4, board.Entries[3].Rank)
}

func TestLeaderboard_NoBatch(t *testing.T) {
	a := aggregator(&models.Snapshot{
		Interns: []models.Intern{
			{UID: "X", Name: "Xan"},
			{UID: "Y", Name: "Yul"},
		},
	})

	board, err := a.Leaderboard("X")
	require.NoError(t, err)
	assert.True(t, board.NoBatch)
	assert.NotNil(t, board.Entries)
	assert.Empty(t, board.Entries)

	_, err = a.Leaderboard("missing")
	assert.ErrorIs(t, err, models.ErrInternNotFound)
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 1, DaysUntil(now.Add(time.Hour), now))
	assert.Equal(t, 1, DaysUntil(now.Add(24*time.Hour), now))
	assert.Equal(t, 2, DaysUntil(now.Add(25*time.Hour), now))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, -1, DaysUntil(now.Add(-25*time.Hour), now))
}

func TestUpcomingDeadlines(t *testing.T) {
	day := 24 * time.Hour
	snap := &models.Snapshot{
		Interns: []models.Intern{{UID: "X"}, {UID: "Y"}},
		Groups:  []models.Group{{ID: "G1", InternIDs: []models.InternID{"X"}}},
		Assignments: []models.Assignment{
			{ID: "a1", Title: "Far", TargetAudience: models.AudienceAll, Deadline: now.Add(10 * day)},
			{ID: "a2", Title: "Soon", TargetAudience: models.AudienceAll, Deadline: now.Add(2 * day)},
			{ID: "a3", Title: "Group only", TargetAudience: models.AudienceGroup, TargetIDs: []string{"G1"}, Deadline: now.Add(day)},
			{ID: "a4", Title: "Past", TargetAudience: models.AudienceIndividual, TargetIDs: []string{"X"}, Deadline: now.Add(-3 * day)},
			{ID: "a5", Title: "Week", TargetAudience: models.AudienceIndividual, TargetIDs: []string{"X"}, Deadline: now.Add(7 * day)},
		},
		Projects: []models.Project{
			{ID: "p1", Title: "Group project", AssignedTo: models.AssignedToGroup, AssignedIDs: []string{"G1"}, Deadline: now.Add(36 * time.Hour), Status: models.ProjectStatusActive},
			{ID: "p2", Title: "Done", AssignedTo: models.AssignedToIndividual, AssignedIDs: []string{"X"}, Deadline: now.Add(day), Status: models.ProjectStatusCompleted},
			{ID: "p3", Title: "Other", AssignedTo: models.AssignedToIndividual, AssignedIDs: []string{"Y"}, Deadline: now.Add(day), Status: models.ProjectStatusActive},
			{ID: "p4", Title: "Mine", AssignedTo: models.AssignedToIndividual, AssignedIDs: []string{"X"}, Deadline: now.Add(2 * day), Status: models.ProjectStatusActive},
		},
	}
	a := aggregator(snap)

	all := a.UpcomingDeadlines("X", now, 0)
	got := make([]string, 0, len(all))
	for _, d := range all {
		got = append(got, d.ID)
	}
	assert.Equal(t, []string{"a2", "p1", "p4", "a5"}, got)
	assert.Equal(t, 2, all[0].DaysLeft)
	assert.Equal(t, DeadlineProject, all[1].Kind)

	top := a.UpcomingDeadlines("X", now, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "p4", top[2].ID)

	none := aggregator(&models.Snapshot{Interns: []models.Intern{{UID: "Z"}}}).UpcomingDeadlines("Z", now, 3)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSupervisorOverview(t *testing.T) {
	snap := &models.Snapshot{
		Interns:     []models.Intern{{UID: "a"}, {UID: "b"}, {UID: "c"}},
		Supervisors: []models.Supervisor{{UID: "s1", Name: "Sam"}},
		Groups: []models.Group{
			{ID: "g1", Name: "Sam's Group", SupervisorID: "s1", InternIDs: []models.InternID{"a", "b", "ghost"}},
			{ID: "g2", Name: "Other", SupervisorID: "s2", InternIDs: []models.InternID{"c"}},
		},
		Projects: []models.Project{
			{ID: "p1", SupervisorID: "s1", Deadline: now.Add(time.Hour), Status: models.ProjectStatusActive},
			{ID: "p2", SupervisorID: "s1", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusActive},
			{ID: "p3", SupervisorID: "s1", Deadline: now.Add(-time.Hour), Status: models.ProjectStatusCompleted},
			{ID: "p4", SupervisorID: "s2", Deadline: now.Add(time.Hour)},
		},
		DocumentSubmissions: []models.DocumentSubmission{
			{ID: "d1", InternID: "a"},
			{ID: "d2", InternID: "b", Reviewed: true},
			{ID: "d3", InternID: "c"},
		},
		Submissions: []models.Submission{
			{ID: "s1", InternID: "b"},
		},
	}

	o, err := aggregator(snap).SupervisorOverview("s1", now)
	require.NoError(t, err)
	assert.Equal(t, []GroupSummary{{ID: "g1", Name: "Sam's Group", MemberCount: 3}}, o.Groups)
	assert.Equal(t, 2, o.TotalInterns)
	assert.Equal(t, 1, o.ActiveProjects)
	assert.Equal(t, 1, o.OverdueProjects)
	assert.Equal(t, 1, o.CompletedProjects)
	assert.Equal(t, 1, o.PendingDocuments)
	assert.Equal(t, 1, o.PendingSubmissions)

	_, err = aggregator(snap).SupervisorOverview("nobody", now)
	assert.ErrorIs(t, err, models.ErrSupervisorNotFound)
}

func TestAdminOverview(t *testing.T) {
	snap := &models.Snapshot{
		Interns:     []models.Intern{{UID: "a", Name: "Ann"}, {UID: "b", Name: "Ben"}, {UID: "c", Name: "Cid", Nickname: "C"}},
		Supervisors: []models.Supervisor{{UID: "s1"}},
		Groups: []models.Group{
			{ID: "g1", SupervisorID: "s1", InternIDs: []models.InternID{"a", "ghost"}},
			{ID: "g2", SupervisorID: "gone", InternIDs: []models.InternID{"a", "b", "ghost"}},
		},
	}

	o := aggregator(snap).AdminOverview()
	assert.Equal(t, 3, o.Counts["acceptedInterns"])
	assert.Equal(t, 2, o.Counts["groups"])
	assert.Equal(t, 0, o.Counts["grades"])
	assert.Equal(t, []models.InternRef{{ID: "c", Name: "C", Resolved: true}}, o.UnassignedInterns)
	require.Len(t, o.DuplicateMemberships, 2)
	assert.Equal(t, models.InternID("a"), o.DuplicateMemberships[0].InternID)
	assert.Equal(t, models.InternID("ghost"), o.DuplicateMemberships[1].InternID)
	assert.Equal(t, []resolver.UnresolvedReference{{Kind: resolver.ReferenceIntern, ID: "ghost"}}, o.DanglingMembers)
	assert.Equal(t, []models.GroupID{"g2"}, o.UnknownSupervisors)
}

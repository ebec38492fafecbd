package stats

import (
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
)

type GroupSummary struct {
	ID          models.GroupID `json:"id"`
	Name        string         `json:"name"`
	MemberCount int            `json:"member_count"`
}

type SupervisorOverview struct {
	Supervisor         models.Supervisor `json:"supervisor"`
	Groups             []GroupSummary    `json:"groups"`
	TotalInterns       int               `json:"total_interns"`
	ActiveProjects     int               `json:"active_projects"`
	OverdueProjects    int               `json:"overdue_projects"`
	CompletedProjects  int               `json:"completed_projects"`
	PendingDocuments   int               `json:"pending_documents"`
	PendingSubmissions int               `json:"pending_submissions"`
}

func (a *Aggregator) SupervisorOverview(supervisorID models.SupervisorID, now time.Time) (*SupervisorOverview, error) {
	supervisor, ok := a.res.Supervisor(supervisorID)
	if !ok {
		return nil, models.ErrSupervisorNotFound
	}

	o := &SupervisorOverview{
		Supervisor: *supervisor,
		Groups:     []GroupSummary{},
	}

	for _, g := range a.res.GroupsOfSupervisor(supervisorID) {
		o.Groups = append(o.Groups, GroupSummary{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: len(g.InternIDs),
		})
	}

	interns := a.res.InternsOfSupervisor(supervisorID)
	o.TotalInterns = len(interns)
	mine := make(map[models.InternID]struct{}, len(interns))
	for _, i := range interns {
		mine[i.UID] = struct{}{}
	}

	for _, p := range a.snap.Projects {
		if p.SupervisorID != supervisorID {
			continue
		}
		switch p.EffectiveStatus(now) {
		case models.ProjectStatusActive:
			o.ActiveProjects++
		case models.ProjectStatusOverdue:
			o.OverdueProjects++
		case models.ProjectStatusCompleted:
			o.CompletedProjects++
		}
	}

	for _, d := range a.snap.DocumentSubmissions {
		if _, ok := mine[d.InternID]; ok && !d.Reviewed {
			o.PendingDocuments++
		}
	}
	for _, s := range a.snap.Submissions {
		if _, ok := mine[s.InternID]; ok && !s.Reviewed {
			o.PendingSubmissions++
		}
	}

	return o, nil
}

type AdminOverview struct {
	Counts               map[string]int                 `json:"counts"`
	UnassignedInterns    []models.InternRef             `json:"unassigned_interns"`
	DuplicateMemberships []resolver.DuplicateMembership `json:"duplicate_memberships"`
	DanglingMembers      []resolver.UnresolvedReference `json:"dangling_members"`
	UnknownSupervisors   []models.GroupID               `json:"groups_without_supervisor"`
}

// AdminOverview собирает размеры коллекций и нарушения связей между записями.
func (a *Aggregator) AdminOverview() *AdminOverview {
	o := &AdminOverview{
		Counts: map[string]int{
			models.CollectionInterns.String():             len(a.snap.Interns),
			models.CollectionSupervisors.String():         len(a.snap.Supervisors),
			models.CollectionGroups.String():              len(a.snap.Groups),
			models.CollectionAssignments.String():         len(a.snap.Assignments),
			models.CollectionProjects.String():            len(a.snap.Projects),
			models.CollectionSubmissions.String():         len(a.snap.Submissions),
			models.CollectionGrades.String():              len(a.snap.Grades),
			models.CollectionDocumentSubmissions.String(): len(a.snap.DocumentSubmissions),
			models.CollectionSupervisorDocuments.String(): len(a.snap.SupervisorDocuments),
		},
		UnassignedInterns:    []models.InternRef{},
		DuplicateMemberships: a.res.DuplicateMemberships(),
		DanglingMembers:      []resolver.UnresolvedReference{},
		UnknownSupervisors:   []models.GroupID{},
	}

	for _, i := range a.res.Unassigned() {
		o.UnassignedInterns = append(o.UnassignedInterns, models.InternRef{ID: i.UID, Name: i.DisplayName(), Resolved: true})
	}
	if o.DuplicateMemberships == nil {
		o.DuplicateMemberships = []resolver.DuplicateMembership{}
	}

	seen := make(map[models.InternID]struct{})
	for _, g := range a.snap.Groups {
		if _, ok := a.res.Supervisor(g.SupervisorID); !ok {
			o.UnknownSupervisors = append(o.UnknownSupervisors, g.ID)
		}
		for _, ref := range a.res.Members(g.ID) {
			if ref.Resolved {
				continue
			}
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			o.DanglingMembers = append(o.DanglingMembers, resolver.UnresolvedReference{Kind: resolver.ReferenceIntern, ID: string(ref.ID)})
		}
	}

	return o
}

// Package resolver отвечает на запросы о связях между интернами, группами,
// супервайзерами и адресатами заданий по одному снапшоту хранилища.
package resolver

import (
	"sort"

	"github.com/RubachokBoss/internhub/internal/models"
)

const (
	UnknownIntern     = "Unknown Intern"
	UnknownGroup      = "Unknown Group"
	UnknownSupervisor = "Unknown Supervisor"
	AllInternsLabel   = "All Interns"
)

// Resolver строит индексы один раз на снапшот. Все методы чистые.
type Resolver struct {
	snap *models.Snapshot

	interns          map[models.InternID]*models.Intern
	supervisors      map[models.SupervisorID]*models.Supervisor
	groups           map[models.GroupID]*models.Group
	internGroup      map[models.InternID]models.GroupID
	supervisorGroups map[models.SupervisorID][]models.GroupID
	claims           map[models.InternID][]models.GroupID
}

func New(snap *models.Snapshot) *Resolver {
	r := &Resolver{
		snap:             snap,
		interns:          make(map[models.InternID]*models.Intern, len(snap.Interns)),
		supervisors:      make(map[models.SupervisorID]*models.Supervisor, len(snap.Supervisors)),
		groups:           make(map[models.GroupID]*models.Group, len(snap.Groups)),
		internGroup:      make(map[models.InternID]models.GroupID),
		supervisorGroups: make(map[models.SupervisorID][]models.GroupID),
		claims:           make(map[models.InternID][]models.GroupID),
	}

	for i := range snap.Interns {
		r.interns[snap.Interns[i].UID] = &snap.Interns[i]
	}
	for i := range snap.Supervisors {
		r.supervisors[snap.Supervisors[i].UID] = &snap.Supervisors[i]
	}

	// Группы идут в порядке ID: при нарушении инварианта интерна забирает первая.
	for i := range snap.Groups {
		g := &snap.Groups[i]
		r.groups[g.ID] = g
		r.supervisorGroups[g.SupervisorID] = append(r.supervisorGroups[g.SupervisorID], g.ID)

		for _, internID := range g.InternIDs {
			if !containsGroup(r.claims[internID], g.ID) {
				r.claims[internID] = append(r.claims[internID], g.ID)
			}
			if _, taken := r.internGroup[internID]; !taken {
				r.internGroup[internID] = g.ID
			}
		}
	}

	return r
}

func (r *Resolver) Snapshot() *models.Snapshot {
	return r.snap
}

func (r *Resolver) Intern(id models.InternID) (*models.Intern, bool) {
	i, ok := r.interns[id]
	return i, ok
}

func (r *Resolver) Supervisor(id models.SupervisorID) (*models.Supervisor, bool) {
	s, ok := r.supervisors[id]
	return s, ok
}

func (r *Resolver) Group(id models.GroupID) (*models.Group, bool) {
	g, ok := r.groups[id]
	return g, ok
}

// GroupOf возвращает группу, в internIds которой есть интерн.
func (r *Resolver) GroupOf(internID models.InternID) (*models.Group, bool) {
	groupID, ok := r.internGroup[internID]
	if !ok {
		return nil, false
	}
	return r.groups[groupID], true
}

// SupervisorOf идет через группу интерна; группа без известного супервайзера дает false.
func (r *Resolver) SupervisorOf(internID models.InternID) (*models.Supervisor, bool) {
	g, ok := r.GroupOf(internID)
	if !ok {
		return nil, false
	}
	return r.Supervisor(g.SupervisorID)
}

func (r *Resolver) Members(groupID models.GroupID) []models.InternRef {
	g, ok := r.groups[groupID]
	if !ok {
		return nil
	}

	members := make([]models.InternRef, 0, len(g.InternIDs))
	for _, id := range g.InternIDs {
		members = append(members, r.internRef(id))
	}
	return members
}

func (r *Resolver) internRef(id models.InternID) models.InternRef {
	if intern, ok := r.interns[id]; ok {
		return models.InternRef{ID: id, Name: intern.DisplayName(), Resolved: true}
	}
	return models.InternRef{ID: id, Name: UnknownIntern}
}

// GroupsOfSupervisor возвращает группы супервайзера в порядке ID.
func (r *Resolver) GroupsOfSupervisor(supervisorID models.SupervisorID) []models.Group {
	ids := r.supervisorGroups[supervisorID]
	groups := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, *r.groups[id])
	}
	return groups
}

// InternsOfSupervisor — известные интерны из всех групп супервайзера, по uid.
func (r *Resolver) InternsOfSupervisor(supervisorID models.SupervisorID) []models.Intern {
	seen := make(map[models.InternID]struct{})
	var interns []models.Intern
	for _, groupID := range r.supervisorGroups[supervisorID] {
		for _, id := range r.groups[groupID].InternIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if intern, ok := r.interns[id]; ok {
				interns = append(interns, *intern)
			}
		}
	}
	sortInterns(interns)
	return interns
}

func (r *Resolver) InternName(id models.InternID) string {
	return r.internRef(id).Name
}

func (r *Resolver) GroupName(id models.GroupID) string {
	if g, ok := r.groups[id]; ok {
		return g.Name
	}
	return UnknownGroup
}

func (r *Resolver) SupervisorName(id models.SupervisorID) string {
	if s, ok := r.supervisors[id]; ok {
		return s.Name
	}
	return UnknownSupervisor
}

// Unassigned — интерны, которых не заявила ни одна группа.
func (r *Resolver) Unassigned() []models.Intern {
	var interns []models.Intern
	for _, intern := range r.snap.Interns {
		if _, ok := r.internGroup[intern.UID]; !ok {
			interns = append(interns, intern)
		}
	}
	return interns
}

// DuplicateMembership — интерн, которого держат сразу несколько групп.
type DuplicateMembership struct {
	InternID models.InternID  `json:"intern_id"`
	GroupIDs []models.GroupID `json:"group_ids"`
}

func (r *Resolver) DuplicateMemberships() []DuplicateMembership {
	var dups []DuplicateMembership
	for internID, groupIDs := range r.claims {
		if len(groupIDs) > 1 {
			dups = append(dups, DuplicateMembership{
				InternID: internID,
				GroupIDs: append([]models.GroupID(nil), groupIDs...),
			})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].InternID < dups[j].InternID })
	return dups
}

func containsGroup(ids []models.GroupID, id models.GroupID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func sortInterns(interns []models.Intern) {
	sort.SliceStable(interns, func(i, j int) bool { return interns[i].UID < interns[j].UID })
}

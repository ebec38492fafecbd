package resolver

import (
	"github.com/RubachokBoss/internhub/internal/models"
)

type ReferenceKind string

const (
	ReferenceIntern ReferenceKind = "intern"
	ReferenceGroup  ReferenceKind = "group"
)

// UnresolvedReference — id из targetIds или internIds, которому нет записи.
type UnresolvedReference struct {
	Kind ReferenceKind `json:"kind"`
	ID   string        `json:"id"`
}

func (u UnresolvedReference) Label() string {
	if u.Kind == ReferenceGroup {
		return UnknownGroup
	}
	return UnknownIntern
}

// TargetSet — результат раскрытия аудитории в конкретных интернов.
type TargetSet struct {
	Audience   models.TargetAudience `json:"audience"`
	Interns    []models.Intern       `json:"interns"`
	Unresolved []UnresolvedReference `json:"unresolved,omitempty"`

	labels []string
}

func (t TargetSet) Contains(id models.InternID) bool {
	for _, intern := range t.Interns {
		if intern.UID == id {
			return true
		}
	}
	return false
}

func (t TargetSet) InternIDs() []models.InternID {
	ids := make([]models.InternID, 0, len(t.Interns))
	for _, intern := range t.Interns {
		ids = append(ids, intern.UID)
	}
	return ids
}

// Labels — подписи адресатов в порядке targetIds; неизвестные id получают заглушку.
func (t TargetSet) Labels() []string {
	return append([]string(nil), t.labels...)
}

// ResolveTargets раскрывает аудиторию: all — все интерны, individual — интерны из
// targetIDs, group — объединение участников перечисленных групп. Интерны без
// повторов, по uid.
func (r *Resolver) ResolveTargets(audience models.TargetAudience, targetIDs []string) TargetSet {
	set := TargetSet{Audience: audience}
	picked := make(map[models.InternID]struct{})
	missing := make(map[UnresolvedReference]struct{})

	addIntern := func(id models.InternID) bool {
		intern, ok := r.interns[id]
		if !ok {
			ref := UnresolvedReference{Kind: ReferenceIntern, ID: string(id)}
			if _, seen := missing[ref]; !seen {
				missing[ref] = struct{}{}
				set.Unresolved = append(set.Unresolved, ref)
			}
			return false
		}
		if _, dup := picked[id]; !dup {
			picked[id] = struct{}{}
			set.Interns = append(set.Interns, *intern)
		}
		return true
	}

	switch audience {
	case models.AudienceAll:
		for _, intern := range r.snap.Interns {
			addIntern(intern.UID)
		}
		set.labels = []string{AllInternsLabel}

	case models.AudienceIndividual:
		for _, id := range targetIDs {
			internID := models.InternID(id)
			if addIntern(internID) {
				set.labels = append(set.labels, r.interns[internID].DisplayName())
			} else {
				set.labels = append(set.labels, UnknownIntern)
			}
		}

	case models.AudienceGroup:
		for _, id := range targetIDs {
			g, ok := r.groups[models.GroupID(id)]
			if !ok {
				ref := UnresolvedReference{Kind: ReferenceGroup, ID: id}
				if _, seen := missing[ref]; !seen {
					missing[ref] = struct{}{}
					set.Unresolved = append(set.Unresolved, ref)
				}
				set.labels = append(set.labels, UnknownGroup)
				continue
			}
			set.labels = append(set.labels, g.Name)
			for _, member := range g.InternIDs {
				addIntern(member)
			}
		}
	}

	sortInterns(set.Interns)
	return set
}

// Includes проверяет адресацию без построения полного набора.
func (r *Resolver) Includes(audience models.TargetAudience, targetIDs []string, internID models.InternID) bool {
	switch audience {
	case models.AudienceAll:
		return true
	case models.AudienceIndividual:
		for _, id := range targetIDs {
			if models.InternID(id) == internID {
				return true
			}
		}
	case models.AudienceGroup:
		for _, id := range targetIDs {
			if g, ok := r.groups[models.GroupID(id)]; ok && g.HasMember(internID) {
				return true
			}
		}
	}
	return false
}

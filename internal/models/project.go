package models

import "time"

type ProjectAssignee string

const (
	AssignedToIndividual ProjectAssignee = "individual"
	AssignedToGroup      ProjectAssignee = "group"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOverdue   ProjectStatus = "overdue"
)

func (ps ProjectStatus) String() string {
	return string(ps)
}

type Project struct {
	ID           ProjectID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Deadline     time.Time       `json:"deadline"`
	AssignedTo   ProjectAssignee `json:"assignedTo"`
	AssignedIDs  []string        `json:"assignedIds"`
	SupervisorID SupervisorID    `json:"supervisorId"`
	Status       ProjectStatus   `json:"status"`
}

// EffectiveStatus: completed остается completed, иначе статус выводится из дедлайна.
func (p Project) EffectiveStatus(now time.Time) ProjectStatus {
	if p.Status == ProjectStatusCompleted {
		return ProjectStatusCompleted
	}
	if p.Deadline.Before(now) {
		return ProjectStatusOverdue
	}
	return ProjectStatusActive
}

// Audience переводит assignedTo в аудиторию для резолвера целей.
func (p Project) Audience() TargetAudience {
	if p.AssignedTo == AssignedToGroup {
		return AudienceGroup
	}
	return AudienceIndividual
}

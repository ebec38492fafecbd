package models

import "time"

type TargetAudience string

const (
	AudienceAll        TargetAudience = "all"
	AudienceGroup      TargetAudience = "group"
	AudienceIndividual TargetAudience = "individual"
)

func IsValidAudience(a string) bool {
	switch TargetAudience(a) {
	case AudienceAll, AudienceGroup, AudienceIndividual:
		return true
	default:
		return false
	}
}

type Assignment struct {
	ID             AssignmentID   `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Deadline       time.Time      `json:"deadline"`
	TargetAudience TargetAudience `json:"targetAudience"`
	TargetIDs      []string       `json:"targetIds,omitempty"`
	FileURL        string         `json:"fileUrl,omitempty"`
}

type AssignmentWithTargets struct {
	Assignment
	TargetLabels []string `json:"target_labels"`
	InternCount  int      `json:"intern_count"`
}

package models

import "time"

type SubmissionType string

const (
	SubmissionTypeGithub SubmissionType = "github"
	SubmissionTypeDrive  SubmissionType = "drive"
)

func IsValidSubmissionType(t string) bool {
	switch SubmissionType(t) {
	case SubmissionTypeGithub, SubmissionTypeDrive:
		return true
	default:
		return false
	}
}

// Submission — ссылка на github или drive, сданная по заданию.
type Submission struct {
	ID           SubmissionID   `json:"id"`
	InternID     InternID       `json:"internId"`
	AssignmentID AssignmentID   `json:"assignmentId,omitempty"`
	ProjectID    ProjectID      `json:"projectId,omitempty"`
	Type         SubmissionType `json:"type"`
	URL          string         `json:"url"`
	SubmittedAt  time.Time      `json:"submittedAt"`
	Grade        *float64       `json:"grade,omitempty"`
	Feedback     string         `json:"feedback,omitempty"`
	Reviewed     bool           `json:"reviewed,omitempty"`
}

// DocumentSubmission — загруженный интерном отчет.
type DocumentSubmission struct {
	ID           DocumentID   `json:"id"`
	InternID     InternID     `json:"internId"`
	AssignmentID AssignmentID `json:"assignmentId,omitempty"`
	ProjectID    ProjectID    `json:"projectId,omitempty"`
	Title        string       `json:"title"`
	FileName     string       `json:"fileName"`
	FileURL      string       `json:"fileUrl"`
	FileHash     string       `json:"fileHash,omitempty"`
	SubmittedAt  time.Time    `json:"submittedAt"`
	Grade        *float64     `json:"grade,omitempty"`
	Feedback     string       `json:"feedback,omitempty"`
	Reviewed     bool         `json:"reviewed,omitempty"`
}

// SupervisorDocument — материал, которым супервайзер делится с интернами.
type SupervisorDocument struct {
	ID             DocumentID     `json:"id"`
	SupervisorID   SupervisorID   `json:"supervisorId"`
	Title          string         `json:"title"`
	FileName       string         `json:"fileName"`
	FileURL        string         `json:"fileUrl"`
	TargetAudience TargetAudience `json:"targetAudience"`
	TargetIDs      []string       `json:"targetIds,omitempty"`
	UploadedAt     time.Time      `json:"uploadedAt"`
}

type Grade struct {
	ID       GradeID  `json:"id"`
	InternID InternID `json:"internId"`
	Grade    float64  `json:"grade"`
	MaxGrade float64  `json:"maxGrade"`
	Feedback string   `json:"feedback,omitempty"`
}

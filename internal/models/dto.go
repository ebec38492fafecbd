package models

import (
	"io"
	"time"
)

// Data Transfer Objects

type CreateInternRequest struct {
	UID        string   `json:"uid" validate:"omitempty,max=128"`
	Name       string   `json:"name" validate:"required,max=255"`
	Nickname   string   `json:"nickname" validate:"max=64"`
	Email      string   `json:"email" validate:"required,email,max=255"`
	University string   `json:"university" validate:"required,max=255"`
	GPA        float64  `json:"gpa" validate:"gte=0,lte=4"`
	Skills     []string `json:"skills"`
	Weaknesses []string `json:"weaknesses"`
	Batch      string   `json:"batch" validate:"max=64"`
}

type UpdateInternRequest struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Nickname   string   `json:"nickname" validate:"max=64"`
	Email      string   `json:"email" validate:"required,email,max=255"`
	University string   `json:"university" validate:"required,max=255"`
	GPA        float64  `json:"gpa" validate:"gte=0,lte=4"`
	Skills     []string `json:"skills"`
	Weaknesses []string `json:"weaknesses"`
	Batch      string   `json:"batch" validate:"max=64"`
}

type SetNicknameRequest struct {
	Nickname string `json:"nickname" validate:"max=64"`
}

// AssignSupervisorRequest: пустой supervisor_id снимает назначение.
type AssignSupervisorRequest struct {
	SupervisorID string `json:"supervisor_id"`
}

type BulkAssignRequest struct {
	InternIDs    []string `json:"intern_ids" validate:"required,min=1,dive,required"`
	SupervisorID string   `json:"supervisor_id" validate:"required"`
}

type MoveInternRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type UpdateSupervisorRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Department string `json:"department" validate:"max=255"`
	Notes      string `json:"notes" validate:"max=2000"`
}

type CreateGroupRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description" validate:"max=1000"`
	SupervisorID string   `json:"supervisor_id"`
	InternIDs    []string `json:"intern_ids" validate:"dive,required"`
}

type UpdateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

type AddMemberRequest struct {
	InternID string `json:"intern_id" validate:"required"`
}

type AssignmentRequest struct {
	Title          string    `json:"title" validate:"required,max=255"`
	Description    string    `json:"description" validate:"max=5000"`
	Deadline       time.Time `json:"deadline" validate:"required"`
	TargetAudience string    `json:"target_audience" validate:"required,oneof=all group individual"`
	TargetIDs      []string  `json:"target_ids" validate:"dive,required"`
	FileURL        string    `json:"file_url" validate:"omitempty,url"`
}

type ProjectRequest struct {
	Title        string    `json:"title" validate:"required,max=255"`
	Description  string    `json:"description" validate:"max=5000"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	AssignedTo   string    `json:"assigned_to" validate:"required,oneof=individual group"`
	AssignedIDs  []string  `json:"assigned_ids" validate:"required,min=1,dive,required"`
	SupervisorID string    `json:"supervisor_id"`
}

type CreateSubmissionRequest struct {
	AssignmentID string `json:"assignment_id"`
	ProjectID    string `json:"project_id"`
	Type         string `json:"type" validate:"required,oneof=github drive"`
	URL          string `json:"url" validate:"required,url"`
}

type ReviewRequest struct {
	Grade    *float64 `json:"grade" validate:"omitempty,gte=0,lte=100"`
	Feedback string   `json:"feedback" validate:"max=5000"`
}

type CreateGradeRequest struct {
	InternID string  `json:"intern_id" validate:"required"`
	Grade    float64 `json:"grade" validate:"gte=0,ltefield=MaxGrade"`
	MaxGrade float64 `json:"maxGrade" validate:"gt=0"`
	Feedback string  `json:"feedback" validate:"max=5000"`
}

// FileUpload — файл из multipart-формы.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadDocumentRequest struct {
	InternID     string      `json:"intern_id" validate:"required"`
	AssignmentID string      `json:"assignment_id"`
	ProjectID    string      `json:"project_id"`
	Title        string      `json:"title" validate:"required,max=255"`
	File         *FileUpload `json:"-" validate:"required"`
}

type ShareDocumentRequest struct {
	SupervisorID   string      `json:"supervisor_id" validate:"required"`
	Title          string      `json:"title" validate:"required,max=255"`
	TargetAudience string      `json:"target_audience" validate:"required,oneof=all group individual"`
	TargetIDs      []string    `json:"target_ids" validate:"dive,required"`
	File           *FileUpload `json:"-" validate:"required"`
}

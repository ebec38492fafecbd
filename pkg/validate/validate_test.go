package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)

	fields := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		fields[f.Field] = f.Error
	}
	return fields
}

func TestStruct_Intern(t *testing.T) {
	tests := []struct {
		name       string
		req        models.CreateInternRequest
		wantFields map[string]string
	}{
		{
			name: "valid",
			req: models.CreateInternRequest{
				Name: "Ann", Email: "ann@example.com", University: "MIT", GPA: 3.9,
			},
		},
		{
			name: "missing required and gpa out of range",
			req:  models.CreateInternRequest{Email: "not-an-email", GPA: 4.5},
			wantFields: map[string]string{
				"name":       "is required",
				"email":      "must be a valid email",
				"university": "is required",
				"gpa":        "must be less than or equal to 4",
			},
		},
		{
			name: "negative gpa",
			req: models.CreateInternRequest{
				Name: "Ann", Email: "ann@example.com", University: "MIT", GPA: -1,
			},
			wantFields: map[string]string{"gpa": "must be greater than or equal to 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldsOf(t, err))
		})
	}
}

func TestStruct_Grade(t *testing.T) {
	assert.NoError(t, Struct(models.CreateGradeRequest{InternID: "x", Grade: 50, MaxGrade: 50}))

	fields := fieldsOf(t, Struct(models.CreateGradeRequest{InternID: "x", Grade: 60, MaxGrade: 50}))
	assert.Equal(t, map[string]string{"grade": "must not exceed maxGrade"}, fields)

	fields = fieldsOf(t, Struct(models.CreateGradeRequest{Grade: 0, MaxGrade: 0}))
	assert.Equal(t, "is required", fields["intern_id"])
	assert.Equal(t, "must be greater than 0", fields["maxGrade"])
}

func TestStruct_Assignment(t *testing.T) {
	fields := fieldsOf(t, Struct(models.AssignmentRequest{
		Title:          "Task",
		TargetAudience: "everyone",
	}))
	assert.Equal(t, map[string]string{
		"deadline":        "is required",
		"target_audience": "must be one of: all, group, individual",
	}, fields)

	assert.NoError(t, Struct(models.AssignmentRequest{
		Title:          "Task",
		Deadline:       time.Now(),
		TargetAudience: "all",
	}))
}

func TestStruct_FileRequired(t *testing.T) {
	fields := fieldsOf(t, Struct(models.UploadDocumentRequest{InternID: "x", Title: "Report"}))
	assert.Equal(t, map[string]string{"file": "is required"}, fields)
}

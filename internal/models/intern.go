package models

type Intern struct {
	UID        InternID `json:"uid"`
	Name       string   `json:"name"`
	Nickname   string   `json:"nickname,omitempty"`
	Email      string   `json:"email"`
	University string   `json:"university"`
	GPA        float64  `json:"gpa"`
	Skills     []string `json:"skills"`
	Weaknesses []string `json:"weaknesses"`
	Batch      string   `json:"batch,omitempty"`
}

// DisplayName возвращает ник, если он задан.
func (i Intern) DisplayName() string {
	if i.Nickname != "" {
		return i.Nickname
	}
	return i.Name
}

type InternWithRelations struct {
	Intern
	GroupID        GroupID      `json:"group_id,omitempty"`
	GroupName      string       `json:"group_name,omitempty"`
	SupervisorID   SupervisorID `json:"supervisor_id,omitempty"`
	SupervisorName string       `json:"supervisor_name"`
}

type Supervisor struct {
	UID        SupervisorID `json:"uid"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Department string       `json:"department,omitempty"`
	Notes      string       `json:"notes,omitempty"`
}

type SupervisorWithStats struct {
	Supervisor
	TotalGroups  int `json:"total_groups"`
	TotalInterns int `json:"total_interns"`
}

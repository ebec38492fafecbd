package models

import "fmt"

type Group struct {
	ID           GroupID      `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	SupervisorID SupervisorID `json:"supervisorId"`
	InternIDs    []InternID   `json:"internIds"`
}

// DefaultGroupName — имя группы, создаваемой при первом назначении интерна супервайзеру.
func DefaultGroupName(supervisorName string) string {
	return fmt.Sprintf("%s's Group", supervisorName)
}

func (g Group) HasMember(id InternID) bool {
	for _, m := range g.InternIDs {
		if m == id {
			return true
		}
	}
	return false
}

// InternRef — участник группы; Resolved=false означает ссылку на удаленную запись.
type InternRef struct {
	ID       InternID `json:"id"`
	Name     string   `json:"name"`
	Resolved bool     `json:"resolved"`
}

type GroupWithMembers struct {
	Group
	SupervisorName string      `json:"supervisor_name"`
	Members        []InternRef `json:"members"`
}

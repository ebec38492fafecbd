package models

// Actor — текущий пользователь из токена.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsSupervisor() bool {
	return a.Role == RoleSupervisor
}

func (a Actor) IsIntern() bool {
	return a.Role == RoleIntern
}

// Owns сообщает, может ли пользователь менять запись супервайзера supervisorID.
func (a Actor) Owns(supervisorID SupervisorID) bool {
	return a.IsAdmin() || (a.IsSupervisor() && SupervisorID(a.ID) == supervisorID)
}

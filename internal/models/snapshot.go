package models

// Snapshot — все коллекции, загруженные для одного запроса. Каждый срез
// отсортирован по ID, как ключи в документном хранилище.
type Snapshot struct {
	Interns             []Intern
	Supervisors         []Supervisor
	Groups              []Group
	Assignments         []Assignment
	Projects            []Project
	Submissions         []Submission
	Grades              []Grade
	DocumentSubmissions []DocumentSubmission
	SupervisorDocuments []SupervisorDocument
}

func (s *Snapshot) Intern(id InternID) (*Intern, bool) {
	for i := range s.Interns {
		if s.Interns[i].UID == id {
			return &s.Interns[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Supervisor(id SupervisorID) (*Supervisor, bool) {
	for i := range s.Supervisors {
		if s.Supervisors[i].UID == id {
			return &s.Supervisors[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Group(id GroupID) (*Group, bool) {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Assignment(id AssignmentID) (*Assignment, bool) {
	for i := range s.Assignments {
		if s.Assignments[i].ID == id {
			return &s.Assignments[i], true
		}
	}
	return nil, false
}

func (s *Snapshot) Project(id ProjectID) (*Project, bool) {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i], true
		}
	}
	return nil, false
}

package models

// Идентификаторы документов. Внешние ключи хранятся строками внутри записей,
// отдельные типы не дают перепутать их при джойнах.
type (
	InternID     string
	SupervisorID string
	GroupID      string
	AssignmentID string
	ProjectID    string
	SubmissionID string
	DocumentID   string
	GradeID      string
)

// Collection — имя коллекции в документном хранилище.
type Collection string

const (
	CollectionInterns             Collection = "acceptedInterns"
	CollectionSupervisors         Collection = "supervisors"
	CollectionGroups              Collection = "groups"
	CollectionAssignments         Collection = "assignments"
	CollectionProjects            Collection = "projects"
	CollectionSubmissions         Collection = "submissions"
	CollectionGrades              Collection = "grades"
	CollectionDocumentSubmissions Collection = "documentSubmissions"
	CollectionSupervisorDocuments Collection = "supervisorDocuments"
)

func (c Collection) String() string {
	return string(c)
}

// AllCollections перечисляет коллекции в порядке загрузки снапшота.
var AllCollections = []Collection{
	CollectionInterns,
	CollectionSupervisors,
	CollectionGroups,
	CollectionAssignments,
	CollectionProjects,
	CollectionSubmissions,
	CollectionGrades,
	CollectionDocumentSubmissions,
	CollectionSupervisorDocuments,
}

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleIntern     Role = "intern"
)

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleSupervisor, RoleIntern:
		return true
	default:
		return false
	}
}

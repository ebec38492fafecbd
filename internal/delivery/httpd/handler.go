package httpd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/RubachokBoss/internhub/internal/middleware"
	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Pinger проверяет доступность хранилища для /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Services struct {
	Interns     service.InternService
	Supervisors service.SupervisorService
	Groups      service.GroupService
	Assignments service.AssignmentService
	Projects    service.ProjectService
	Submissions service.SubmissionService
	Documents   service.DocumentService
	Grades      service.GradeService
	Dashboard   service.DashboardService
}

type Handler struct {
	internService     service.InternService
	supervisorService service.SupervisorService
	groupService      service.GroupService
	assignmentService service.AssignmentService
	projectService    service.ProjectService
	submissionService service.SubmissionService
	documentService   service.DocumentService
	gradeService      service.GradeService
	dashboardService  service.DashboardService

	auth          *middleware.Authenticator
	pinger        Pinger
	maxUploadSize int64
	logger        zerolog.Logger
}

func NewHandler(
	services Services,
	auth *middleware.Authenticator,
	pinger Pinger,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		internService:     services.Interns,
		supervisorService: services.Supervisors,
		groupService:      services.Groups,
		assignmentService: services.Assignments,
		projectService:    services.Projects,
		submissionService: services.Submissions,
		documentService:   services.Documents,
		gradeService:      services.Grades,
		dashboardService:  services.Dashboard,
		auth:              auth,
		pinger:            pinger,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor)
	interns := middleware.RequireRoles(models.RoleIntern)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(h.auth.Authenticate)

		api.Route("/interns", func(r chi.Router) {
			r.With(staff).Get("/", h.ListInterns)
			r.With(admin).Post("/", h.CreateIntern)
			r.With(admin).Post("/bulk-assign", h.BulkAssign)
			r.Get("/{id}", h.GetIntern)
			r.With(admin).Put("/{id}", h.UpdateIntern)
			r.With(admin).Delete("/{id}", h.DeleteIntern)
			r.With(interns).Put("/{id}/nickname", h.SetNickname)
			r.With(admin).Put("/{id}/supervisor", h.AssignSupervisor)
			r.With(staff).Put("/{id}/group", h.MoveIntern)
			r.Get("/{id}/dashboard", h.GetInternDashboard)
			r.Get("/{id}/leaderboard", h.GetLeaderboard)
			r.Get("/{id}/assignments", h.ListInternAssignments)
			r.Get("/{id}/projects", h.ListInternProjects)
			r.Get("/{id}/submissions", h.ListSubmissions)
			r.With(interns).Post("/{id}/submissions", h.CreateSubmission)
			r.Get("/{id}/grades", h.ListGrades)
			r.Get("/{id}/documents", h.ListInternDocuments)
		})

		api.Route("/supervisors", func(r chi.Router) {
			r.With(staff).Get("/", h.ListSupervisors)
			r.Get("/{id}", h.GetSupervisor)
			r.With(staff).Put("/{id}", h.UpdateSupervisor)
			r.With(staff).Get("/{id}/overview", h.GetSupervisorOverview)
		})

		api.Route("/groups", func(r chi.Router) {
			r.Use(staff)
			r.Get("/", h.ListGroups)
			r.Post("/", h.CreateGroup)
			r.Get("/{id}", h.GetGroup)
			r.Put("/{id}", h.UpdateGroup)
			r.Delete("/{id}", h.DeleteGroup)
			r.Post("/{id}/members", h.AddMember)
			r.Delete("/{id}/members/{internId}", h.RemoveMember)
		})

		api.Route("/assignments", func(r chi.Router) {
			r.With(staff).Get("/", h.ListAssignments)
			r.With(admin).Post("/", h.CreateAssignment)
			r.Get("/{id}", h.GetAssignment)
			r.With(admin).Put("/{id}", h.UpdateAssignment)
			r.With(admin).Delete("/{id}", h.DeleteAssignment)
			r.With(admin).Post("/{id}/attachment", h.UploadAssignmentAttachment)
		})

		api.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.With(staff).Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.With(staff).Put("/{id}", h.UpdateProject)
			r.With(staff).Delete("/{id}", h.DeleteProject)
			r.With(staff).Post("/{id}/complete", h.CompleteProject)
		})

		api.With(staff).Put("/submissions/{id}/review", h.ReviewSubmission)

		api.Route("/documents", func(r chi.Router) {
			r.Post("/", h.UploadDocument)
			r.With(staff).Get("/pending", h.ListPendingDocuments)
			r.With(staff).Put("/{id}/review", h.ReviewDocument)
		})

		api.Route("/supervisor-documents", func(r chi.Router) {
			r.Get("/", h.ListSharedDocuments)
			r.With(staff).Post("/", h.ShareDocument)
		})

		api.With(staff).Post("/grades", h.RecordGrade)

		api.With(admin).Get("/admin/overview", h.GetAdminOverview)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "internhub",
		"timestamp": time.Now().UTC(),
	}

	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("Store ping failed")
			response["status"] = "unhealthy"
			writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func actorFrom(r *http.Request) models.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

// allowIntern: интерн видит только свои данные, персонал — всех.
func allowIntern(w http.ResponseWriter, r *http.Request, internID string) bool {
	actor := actorFrom(r)
	if actor.IsIntern() && actor.ID != internID {
		writeError(w, http.StatusForbidden, "Access denied")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeValidationError(w http.ResponseWriter, verr *models.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   http.StatusText(http.StatusBadRequest),
		"message": "Validation failed",
		"fields":  verr.Fields,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

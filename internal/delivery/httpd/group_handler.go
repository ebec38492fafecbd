package httpd

import (
	"net/http"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/go-chi/chi/v5"
)

// ListGroups: супервайзер без фильтра видит только свои группы.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	supervisorID := models.SupervisorID(r.URL.Query().Get("supervisor_id"))
	if actor := actorFrom(r); actor.IsSupervisor() && supervisorID == "" {
		supervisorID = models.SupervisorID(actor.ID)
	}

	groups, err := h.groupService.ListGroups(r.Context(), supervisorID)
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, groups)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(r.Context(), actorFrom(r), &req)
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeCreated(w, group)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	group, err := h.groupService.GetGroup(r.Context(), models.GroupID(groupID))
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, group)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	var req models.UpdateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.UpdateGroup(r.Context(), actorFrom(r), models.GroupID(groupID), &req)
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, group)
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	if err := h.groupService.DeleteGroup(r.Context(), actorFrom(r), models.GroupID(groupID)); err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Group deleted successfully",
	})
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")

	var req models.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.groupService.AddMember(r.Context(), actorFrom(r), models.GroupID(groupID), &req); err != nil {
		h.handleGroupError(w, err)
		return
	}

	group, err := h.groupService.GetGroup(r.Context(), models.GroupID(groupID))
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, group)
}

// RemoveMember может удалить саму группу, если она опустела.
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	internID := chi.URLParam(r, "internId")

	err := h.groupService.RemoveMember(r.Context(), actorFrom(r), models.GroupID(groupID), models.InternID(internID))
	if err != nil {
		h.handleGroupError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Member removed successfully",
	})
}

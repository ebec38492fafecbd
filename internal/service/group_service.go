package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/internal/service/membership"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
	"github.com/RubachokBoss/internhub/pkg/validate"
	"github.com/rs/zerolog"
)

type GroupService interface {
	CreateGroup(ctx context.Context, actor models.Actor, req *models.CreateGroupRequest) (*models.GroupWithMembers, error)
	UpdateGroup(ctx context.Context, actor models.Actor, id models.GroupID, req *models.UpdateGroupRequest) (*models.GroupWithMembers, error)
	DeleteGroup(ctx context.Context, actor models.Actor, id models.GroupID) error
	GetGroup(ctx context.Context, id models.GroupID) (*models.GroupWithMembers, error)
	ListGroups(ctx context.Context, supervisorID models.SupervisorID) ([]models.GroupWithMembers, error)

	AssignSupervisor(ctx context.Context, internID models.InternID, req *models.AssignSupervisorRequest) (*models.Group, error)
	BulkAssign(ctx context.Context, req *models.BulkAssignRequest) (*models.Group, error)
	MoveIntern(ctx context.Context, actor models.Actor, internID models.InternID, req *models.MoveInternRequest) error
	AddMember(ctx context.Context, actor models.Actor, groupID models.GroupID, req *models.AddMemberRequest) error
	RemoveMember(ctx context.Context, actor models.Actor, groupID models.GroupID, internID models.InternID) error
}

type groupService struct {
	loader    *repository.SnapshotLoader
	store     repository.DocumentStore
	mutator   membership.Mutator
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewGroupService(
	loader *repository.SnapshotLoader,
	mutator membership.Mutator,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) GroupService {
	return &groupService{
		loader:    loader,
		store:     loader.Store(),
		mutator:   mutator,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateGroup создает группу и переносит в нее выбранных интернов из прежних групп.
func (s *groupService) CreateGroup(ctx context.Context, actor models.Actor, req *models.CreateGroupRequest) (*models.GroupWithMembers, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	supervisorID := models.SupervisorID(req.SupervisorID)
	if actor.IsSupervisor() {
		supervisorID = models.SupervisorID(actor.ID)
	}
	if supervisorID == "" {
		return nil, models.NewValidationError(models.FieldError{Field: "supervisor_id", Error: "is required"})
	}
	if !actor.Owns(supervisorID) {
		return nil, models.ErrForbidden
	}

	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}
	if _, ok := v.res.Supervisor(supervisorID); !ok {
		return nil, models.ErrSupervisorNotFound
	}
	members := dedupeStrings(req.InternIDs)
	for _, id := range members {
		if _, ok := v.res.Intern(models.InternID(id)); !ok {
			return nil, fmt.Errorf("%s: %w", id, models.ErrInternNotFound)
		}
	}

	group := models.Group{
		Name:         req.Name,
		Description:  req.Description,
		SupervisorID: supervisorID,
		InternIDs:    []models.InternID{},
	}
	id, err := s.store.Push(ctx, models.CollectionGroups, group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	groupID := models.GroupID(id)

	s.logger.Info().
		Str("group_id", id).
		Str("supervisor_id", string(supervisorID)).
		Int("members", len(members)).
		Msg("Group created")

	for _, internID := range members {
		if err := s.mutator.MoveIntern(ctx, models.InternID(internID), groupID); err != nil {
			return nil, fmt.Errorf("failed to move intern %s into group: %w", internID, err)
		}
	}

	return s.GetGroup(ctx, groupID)
}

func (s *groupService) UpdateGroup(ctx context.Context, actor models.Actor, id models.GroupID, req *models.UpdateGroupRequest) (*models.GroupWithMembers, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, models.CollectionGroups, string(id), map[string]interface{}{
		"name":        req.Name,
		"description": optional(req.Description),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	s.logger.Info().
		Str("group_id", string(id)).
		Msg("Group updated")

	return s.GetGroup(ctx, id)
}

func (s *groupService) DeleteGroup(ctx context.Context, actor models.Actor, id models.GroupID) error {
	g, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, models.CollectionGroups, string(id)); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	integration.Notify(ctx, s.publisher, s.logger, models.NewEvent(models.EventGroupDeleted, string(id), map[string]string{
		"supervisor_id": string(g.SupervisorID),
	}))

	s.logger.Info().
		Str("group_id", string(id)).
		Int("members", len(g.InternIDs)).
		Msg("Group deleted")

	return nil
}

func (s *groupService) GetGroup(ctx context.Context, id models.GroupID) (*models.GroupWithMembers, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	g, ok := v.res.Group(id)
	if !ok {
		return nil, models.ErrGroupNotFound
	}

	result := groupWithMembers(v.res, *g)
	return &result, nil
}

// ListGroups: пустой supervisorID — все группы.
func (s *groupService) ListGroups(ctx context.Context, supervisorID models.SupervisorID) ([]models.GroupWithMembers, error) {
	v, err := loadView(ctx, s.loader)
	if err != nil {
		return nil, err
	}

	groups := v.snap.Groups
	if supervisorID != "" {
		groups = v.res.GroupsOfSupervisor(supervisorID)
	}

	result := make([]models.GroupWithMembers, 0, len(groups))
	for _, g := range groups {
		result = append(result, groupWithMembers(v.res, g))
	}
	return result, nil
}

func (s *groupService) AssignSupervisor(ctx context.Context, internID models.InternID, req *models.AssignSupervisorRequest) (*models.Group, error) {
	return s.mutator.Assign(ctx, internID, models.SupervisorID(req.SupervisorID))
}

func (s *groupService) BulkAssign(ctx context.Context, req *models.BulkAssignRequest) (*models.Group, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	ids := make([]models.InternID, 0, len(req.InternIDs))
	for _, id := range req.InternIDs {
		ids = append(ids, models.InternID(id))
	}
	return s.mutator.BulkAssign(ctx, ids, models.SupervisorID(req.SupervisorID))
}

func (s *groupService) MoveIntern(ctx context.Context, actor models.Actor, internID models.InternID, req *models.MoveInternRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	groupID := models.GroupID(req.GroupID)
	if _, err := s.owned(ctx, actor, groupID); err != nil {
		return err
	}
	return s.mutator.MoveIntern(ctx, internID, groupID)
}

func (s *groupService) AddMember(ctx context.Context, actor models.Actor, groupID models.GroupID, req *models.AddMemberRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}

	if _, err := s.owned(ctx, actor, groupID); err != nil {
		return err
	}
	return s.mutator.AddMember(ctx, groupID, models.InternID(req.InternID))
}

func (s *groupService) RemoveMember(ctx context.Context, actor models.Actor, groupID models.GroupID, internID models.InternID) error {
	if _, err := s.owned(ctx, actor, groupID); err != nil {
		return err
	}
	return s.mutator.RemoveMember(ctx, groupID, internID)
}

// owned загружает группу и проверяет, что пользователь может ее менять.
func (s *groupService) owned(ctx context.Context, actor models.Actor, id models.GroupID) (*models.Group, error) {
	g, err := repository.GetGroup(ctx, s.store, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, models.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if !actor.Owns(g.SupervisorID) {
		return nil, models.ErrForbidden
	}
	return g, nil
}

func groupWithMembers(res *resolver.Resolver, g models.Group) models.GroupWithMembers {
	return models.GroupWithMembers{
		Group:          g,
		SupervisorName: res.SupervisorName(g.SupervisorID),
		Members:        res.Members(g.ID),
	}
}

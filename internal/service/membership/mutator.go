// Package membership выполняет записи, которые меняют состав групп.
//
// Каждая операция — последовательность независимых записей целого массива
// internIds (read-modify-write) без транзакции и отката. Ошибка любой записи
// останавливает последовательность; уже выполненные записи остаются.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/rs/zerolog"
)

// TargetGroupPolicy определяет, в какую из групп супервайзера попадает интерн.
type TargetGroupPolicy string

const (
	// PolicyFirst — первая группа супервайзера в порядке ID.
	PolicyFirst TargetGroupPolicy = "first"
	// PolicyNamed — группа супервайзера с именем "{name}'s Group".
	PolicyNamed TargetGroupPolicy = "named"
)

func ParsePolicy(s string) (TargetGroupPolicy, error) {
	switch TargetGroupPolicy(s) {
	case PolicyFirst, PolicyNamed:
		return TargetGroupPolicy(s), nil
	case "":
		return PolicyFirst, nil
	default:
		return "", fmt.Errorf("unknown target group policy %q", s)
	}
}

type Mutator interface {
	// Assign переводит интерна к супервайзеру; пустой supervisorID снимает назначение.
	// Возвращает группу, в которой оказался интерн, или nil.
	Assign(ctx context.Context, internID models.InternID, supervisorID models.SupervisorID) (*models.Group, error)
	BulkAssign(ctx context.Context, internIDs []models.InternID, supervisorID models.SupervisorID) (*models.Group, error)
	MoveIntern(ctx context.Context, internID models.InternID, toGroupID models.GroupID) error
	AddMember(ctx context.Context, groupID models.GroupID, internID models.InternID) error
	RemoveMember(ctx context.Context, groupID models.GroupID, internID models.InternID) error
	// DetachIntern убирает интерна из всех групп перед удалением его записи.
	DetachIntern(ctx context.Context, internID models.InternID) error
}

type mutator struct {
	loader    *repository.SnapshotLoader
	store     repository.DocumentStore
	policy    TargetGroupPolicy
	publisher integration.EventPublisher
	logger    zerolog.Logger
}

func NewMutator(
	loader *repository.SnapshotLoader,
	policy TargetGroupPolicy,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) Mutator {
	if publisher == nil {
		publisher = integration.NewNoopPublisher()
	}
	return &mutator{
		loader:    loader,
		store:     loader.Store(),
		policy:    policy,
		publisher: publisher,
		logger:    logger,
	}
}

func (m *mutator) Assign(ctx context.Context, internID models.InternID, supervisorID models.SupervisorID) (*models.Group, error) {
	ws, err := m.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.flush(ctx)

	if _, ok := ws.res.Intern(internID); !ok {
		return nil, models.ErrInternNotFound
	}

	var supervisor *models.Supervisor
	if supervisorID != "" {
		s, ok := ws.res.Supervisor(supervisorID)
		if !ok {
			return nil, models.ErrSupervisorNotFound
		}
		supervisor = s
	}

	current, hasCurrent := ws.res.GroupOf(internID)
	if hasCurrent && supervisor != nil {
		// Интерн уже в целевой группе супервайзера: записывать нечего.
		if target := ws.targetGroup(supervisor); target != nil && target.ID == current.ID {
			result := *target
			return &result, nil
		}
	}

	if hasCurrent {
		if err := ws.detach(ctx, ws.group(current.ID), internID); err != nil {
			return nil, err
		}
	}

	if supervisor == nil {
		ws.changed(internID, "", "")
		m.logger.Info().
			Str("intern_id", string(internID)).
			Msg("Intern unassigned")
		return nil, nil
	}

	target := ws.targetGroup(supervisor)
	if target == nil {
		target, err = ws.create(ctx, supervisor, []models.InternID{internID})
		if err != nil {
			return nil, err
		}
	} else if err := ws.attach(ctx, target, internID); err != nil {
		return nil, err
	}

	ws.changed(internID, target.ID, supervisor.UID)
	m.logger.Info().
		Str("intern_id", string(internID)).
		Str("supervisor_id", string(supervisorID)).
		Str("group_id", string(target.ID)).
		Msg("Intern assigned")

	result := *target
	return &result, nil
}

func (m *mutator) BulkAssign(ctx context.Context, internIDs []models.InternID, supervisorID models.SupervisorID) (*models.Group, error) {
	if len(internIDs) == 0 {
		return nil, models.ErrEmptyInternIDList
	}

	ws, err := m.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer ws.flush(ctx)

	supervisor, ok := ws.res.Supervisor(supervisorID)
	if !ok {
		return nil, models.ErrSupervisorNotFound
	}

	batch := dedupe(internIDs)
	for _, id := range batch {
		if _, ok := ws.res.Intern(id); !ok {
			return nil, fmt.Errorf("%s: %w", id, models.ErrInternNotFound)
		}
	}

	// Сначала целевая группа, потом чистка остальных групп.
	target := ws.targetGroup(supervisor)
	if target == nil {
		target, err = ws.create(ctx, supervisor, batch)
		if err != nil {
			return nil, err
		}
	} else {
		merged := dedupe(append(append([]models.InternID(nil), target.InternIDs...), batch...))
		if err := ws.writeMembers(ctx, target, merged); err != nil {
			return nil, err
		}
	}

	for _, internID := range batch {
		for _, g := range ws.groups {
			if g.ID == target.ID || ws.deleted[g.ID] || !g.HasMember(internID) {
				continue
			}
			if err := ws.detach(ctx, g, internID); err != nil {
				return nil, err
			}
		}
		ws.changed(internID, target.ID, supervisor.UID)
	}

	m.logger.Info().
		Int("interns", len(batch)).
		Str("supervisor_id", string(supervisorID)).
		Str("group_id", string(target.ID)).
		Msg("Interns bulk assigned")

	result := *target
	return &result, nil
}

func (m *mutator) MoveIntern(ctx context.Context, internID models.InternID, toGroupID models.GroupID) error {
	ws, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer ws.flush(ctx)

	if _, ok := ws.res.Intern(internID); !ok {
		return models.ErrInternNotFound
	}
	target := ws.group(toGroupID)
	if target == nil {
		return models.ErrGroupNotFound
	}

	if current, ok := ws.res.GroupOf(internID); ok {
		if err := ws.detach(ctx, ws.group(current.ID), internID); err != nil {
			return err
		}
	}

	if ws.deleted[target.ID] {
		// Перенос в собственную группу, которую только что удалили как пустую.
		if err := ws.restore(ctx, target, internID); err != nil {
			return err
		}
	} else if err := ws.attach(ctx, target, internID); err != nil {
		return err
	}

	ws.changed(internID, target.ID, target.SupervisorID)
	m.logger.Info().
		Str("intern_id", string(internID)).
		Str("group_id", string(toGroupID)).
		Msg("Intern moved")

	return nil
}

func (m *mutator) AddMember(ctx context.Context, groupID models.GroupID, internID models.InternID) error {
	ws, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer ws.flush(ctx)

	g := ws.group(groupID)
	if g == nil {
		return models.ErrGroupNotFound
	}
	if _, ok := ws.res.Intern(internID); !ok {
		return models.ErrInternNotFound
	}
	if g.HasMember(internID) {
		return nil
	}

	if err := ws.attach(ctx, g, internID); err != nil {
		return err
	}
	ws.changed(internID, g.ID, g.SupervisorID)

	m.logger.Info().
		Str("intern_id", string(internID)).
		Str("group_id", string(groupID)).
		Msg("Member added")

	return nil
}

func (m *mutator) RemoveMember(ctx context.Context, groupID models.GroupID, internID models.InternID) error {
	ws, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer ws.flush(ctx)

	g := ws.group(groupID)
	if g == nil {
		return models.ErrGroupNotFound
	}
	if !g.HasMember(internID) {
		return nil
	}

	if err := ws.detach(ctx, g, internID); err != nil {
		return err
	}
	ws.changed(internID, "", "")

	m.logger.Info().
		Str("intern_id", string(internID)).
		Str("group_id", string(groupID)).
		Msg("Member removed")

	return nil
}

func (m *mutator) DetachIntern(ctx context.Context, internID models.InternID) error {
	ws, err := m.begin(ctx)
	if err != nil {
		return err
	}
	defer ws.flush(ctx)

	detached := 0
	for _, g := range ws.groups {
		if ws.deleted[g.ID] || !g.HasMember(internID) {
			continue
		}
		if err := ws.detach(ctx, g, internID); err != nil {
			return err
		}
		detached++
	}

	if detached > 0 {
		ws.changed(internID, "", "")
		m.logger.Info().
			Str("intern_id", string(internID)).
			Int("groups", detached).
			Msg("Intern detached from groups")
	}

	return nil
}

func (m *mutator) begin(ctx context.Context) (*workingSet, error) {
	snap, err := m.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return newWorkingSet(m, snap), nil
}

func dedupe(ids []models.InternID) []models.InternID {
	seen := make(map[models.InternID]struct{}, len(ids))
	out := make([]models.InternID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []models.InternID, id models.InternID) []models.InternID {
	out := make([]models.InternID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// IsNotFound сообщает, что операция не нашла интерна, супервайзера или группу.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrInternNotFound) ||
		errors.Is(err, models.ErrSupervisorNotFound) ||
		errors.Is(err, models.ErrGroupNotFound)
}

package membership

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
)

// workingSet — локальная копия групп одной операции. Каждая запись в хранилище
// сразу отражается здесь, чтобы следующие шаги видели актуальные массивы.
type workingSet struct {
	m       *mutator
	res     *resolver.Resolver
	groups  []*models.Group
	byID    map[models.GroupID]*models.Group
	deleted map[models.GroupID]bool
	events  []*models.Event
}

func newWorkingSet(m *mutator, snap *models.Snapshot) *workingSet {
	ws := &workingSet{
		m:       m,
		res:     resolver.New(snap),
		groups:  make([]*models.Group, 0, len(snap.Groups)),
		byID:    make(map[models.GroupID]*models.Group, len(snap.Groups)),
		deleted: make(map[models.GroupID]bool),
	}
	for _, g := range snap.Groups {
		copied := g
		copied.InternIDs = append([]models.InternID(nil), g.InternIDs...)
		ws.groups = append(ws.groups, &copied)
		ws.byID[g.ID] = &copied
	}
	return ws
}

func (ws *workingSet) group(id models.GroupID) *models.Group {
	return ws.byID[id]
}

// targetGroup ищет группу супервайзера по политике; nil — группу нужно создать.
func (ws *workingSet) targetGroup(s *models.Supervisor) *models.Group {
	name := models.DefaultGroupName(s.Name)
	for _, g := range ws.groups {
		if ws.deleted[g.ID] || g.SupervisorID != s.UID {
			continue
		}
		if ws.m.policy == PolicyNamed && g.Name != name {
			continue
		}
		return g
	}
	return nil
}

// detach убирает интерна из группы; опустевшая группа удаляется.
func (ws *workingSet) detach(ctx context.Context, g *models.Group, internID models.InternID) error {
	remaining := without(g.InternIDs, internID)
	if len(remaining) > 0 {
		return ws.writeMembers(ctx, g, remaining)
	}

	if err := ws.m.store.Remove(ctx, models.CollectionGroups, string(g.ID)); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", g.ID, err)
	}
	g.InternIDs = nil
	ws.deleted[g.ID] = true
	ws.events = append(ws.events, models.NewEvent(models.EventGroupDeleted, string(g.ID), map[string]string{
		"supervisor_id": string(g.SupervisorID),
	}))

	ws.m.logger.Info().
		Str("group_id", string(g.ID)).
		Msg("Empty group deleted")

	return nil
}

func (ws *workingSet) attach(ctx context.Context, g *models.Group, internID models.InternID) error {
	if g.HasMember(internID) {
		return nil
	}
	members := append(append([]models.InternID(nil), g.InternIDs...), internID)
	return ws.writeMembers(ctx, g, members)
}

// writeMembers перезаписывает массив internIds целиком.
func (ws *workingSet) writeMembers(ctx context.Context, g *models.Group, members []models.InternID) error {
	err := ws.m.store.Update(ctx, models.CollectionGroups, string(g.ID), map[string]interface{}{
		"internIds": members,
	})
	if err != nil {
		return fmt.Errorf("failed to update group %s: %w", g.ID, err)
	}
	g.InternIDs = members
	return nil
}

func (ws *workingSet) create(ctx context.Context, s *models.Supervisor, members []models.InternID) (*models.Group, error) {
	g := models.Group{
		Name:         models.DefaultGroupName(s.Name),
		SupervisorID: s.UID,
		InternIDs:    members,
	}

	id, err := ws.m.store.Push(ctx, models.CollectionGroups, g)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	g.ID = models.GroupID(id)

	created := &g
	ws.groups = append(ws.groups, created)
	ws.byID[created.ID] = created

	ws.m.logger.Info().
		Str("group_id", id).
		Str("supervisor_id", string(s.UID)).
		Msg("Group created")

	return created, nil
}

// restore записывает удаленную группу заново целиком с одним участником.
func (ws *workingSet) restore(ctx context.Context, g *models.Group, internID models.InternID) error {
	g.InternIDs = []models.InternID{internID}
	if err := ws.m.store.Set(ctx, models.CollectionGroups, string(g.ID), g); err != nil {
		return fmt.Errorf("failed to restore group %s: %w", g.ID, err)
	}
	delete(ws.deleted, g.ID)

	// Группа вернулась: событие удаления больше не актуально.
	kept := ws.events[:0]
	for _, e := range ws.events {
		if e.Type == models.EventGroupDeleted && e.EntityID == string(g.ID) {
			continue
		}
		kept = append(kept, e)
	}
	ws.events = kept

	return nil
}

func (ws *workingSet) changed(internID models.InternID, groupID models.GroupID, supervisorID models.SupervisorID) {
	payload := map[string]string{"intern_id": string(internID)}
	if groupID != "" {
		payload["group_id"] = string(groupID)
	}
	if supervisorID != "" {
		payload["supervisor_id"] = string(supervisorID)
	}
	ws.events = append(ws.events, models.NewEvent(models.EventMembershipChanged, string(internID), payload))
}

// flush публикует накопленные события. Вызывается и после ошибки: выполненные
// записи уже видны остальным.
func (ws *workingSet) flush(ctx context.Context) {
	for _, e := range ws.events {
		integration.Notify(ctx, ws.m.publisher, ws.m.logger, e)
	}
	ws.events = nil
}

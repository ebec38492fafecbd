package service

import (
	"context"
	"fmt"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/resolver"
)

// view — снапшот одного запроса вместе с индексами резолвера.
type view struct {
	snap *models.Snapshot
	res  *resolver.Resolver
}

func loadView(ctx context.Context, loader *repository.SnapshotLoader) (*view, error) {
	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	return &view{snap: snap, res: resolver.New(snap)}, nil
}

// checkAudience: targetIds обязательны для group и individual; для all они игнорируются.
func checkAudience(audience string, targetIDs []string) ([]string, error) {
	if !models.IsValidAudience(audience) {
		return nil, models.ErrInvalidAudience
	}
	if models.TargetAudience(audience) == models.AudienceAll {
		return nil, nil
	}
	if len(targetIDs) == 0 {
		return nil, models.ErrTargetsRequired
	}
	return dedupeStrings(targetIDs), nil
}

func dedupeStrings(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// canReviewIntern: админ проверяет всех, супервайзер — интернов своих групп.
func canReviewIntern(v *view, actor models.Actor, internID models.InternID) bool {
	if actor.IsAdmin() {
		return true
	}
	if !actor.IsSupervisor() {
		return false
	}
	for _, i := range v.res.InternsOfSupervisor(models.SupervisorID(actor.ID)) {
		if i.UID == internID {
			return true
		}
	}
	return false
}

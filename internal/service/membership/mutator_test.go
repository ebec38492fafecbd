package membership

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/RubachokBoss/internhub/internal/repository"
	"github.com/RubachokBoss/internhub/internal/service/integration"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *repository.MemoryStore
	loader    *repository.SnapshotLoader
	publisher *integration.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewMemoryStore()
	n := 0
	store.NewID = func() string {
		n++
		return fmt.Sprintf("new-%03d", n)
	}

	return &fixture{
		store:     store,
		loader:    repository.NewSnapshotLoader(store, zerolog.Nop()),
		publisher: &integration.RecordingPublisher{},
	}
}

func (f *fixture) mutator(policy TargetGroupPolicy) Mutator {
	return NewMutator(f.loader, policy, f.publisher, zerolog.Nop())
}

func (f *fixture) intern(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), models.CollectionInterns, id, models.Intern{
		UID:  models.InternID(id),
		Name: "Intern " + id,
	}))
}

func (f *fixture) supervisor(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), models.CollectionSupervisors, id, models.Supervisor{
		UID:  models.SupervisorID(id),
		Name: name,
	}))
}

func (f *fixture) group(t *testing.T, id, name, supervisorID string, members ...models.InternID) {
	t.Helper()
	require.NoError(t, f.store.Set(context.Background(), models.CollectionGroups, id, models.Group{
		ID:           models.GroupID(id),
		Name:         name,
		SupervisorID: models.SupervisorID(supervisorID),
		InternIDs:    members,
	}))
}

func (f *fixture) groups(t *testing.T) []models.Group {
	t.Helper()
	snap, err := f.loader.Load(context.Background())
	require.NoError(t, err)
	return snap.Groups
}

func (f *fixture) membersOf(t *testing.T, id string) []models.InternID {
	t.Helper()
	g, err := repository.GetGroup(context.Background(), f.store, models.GroupID(id))
	require.NoError(t, err)
	return g.InternIDs
}

// assertMembershipInvariants: каждый интерн не более чем в одной группе, пустых групп нет.
func assertMembershipInvariants(t *testing.T, groups []models.Group) {
	t.Helper()
	owner := make(map[models.InternID]models.GroupID)
	for _, g := range groups {
		assert.NotEmpty(t, g.InternIDs, "group %s persisted empty", g.ID)
		for _, id := range g.InternIDs {
			if prev, ok := owner[id]; ok {
				t.Errorf("intern %s claimed by %s and %s", id, prev, g.ID)
			}
			owner[id] = g.ID
		}
	}
}

func TestAssign_CreatesThenReusesDefaultGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "S1")
	m := f.mutator(PolicyFirst)

	g, err := m.Assign(ctx, "A", "S1")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, "S1's Group", g.Name)
	assert.Equal(t, []models.InternID{"A"}, g.InternIDs)

	g2, err := m.Assign(ctx, "B", "S1")
	require.NoError(t, err)
	assert.Equal(t, g.ID, g2.ID)

	groups := f.groups(t)
	require.Len(t, groups, 1)
	assert.Equal(t, models.SupervisorID("S1"), groups[0].SupervisorID)
	assert.Equal(t, []models.InternID{"A", "B"}, groups[0].InternIDs)
	assertMembershipInvariants(t, groups)
}

func TestAssign_UnassignDeletesEmptiedGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G", "Sam's Group", "S1", "A")

	g, err := f.mutator(PolicyFirst).Assign(ctx, "A", "")
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Empty(t, f.groups(t))
	assert.Equal(t, []models.EventType{models.EventGroupDeleted, models.EventMembershipChanged}, f.publisher.Types())
}

func TestAssign_RoundTripKeepsSupervisorGroup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "C")
	f.intern(t, "X")
	f.supervisor(t, "S", "Sam")
	f.group(t, "G", "Sam's Group", "S", "C")
	m := f.mutator(PolicyFirst)

	_, err := m.Assign(ctx, "X", "S")
	require.NoError(t, err)
	assert.Equal(t, []models.InternID{"C", "X"}, f.membersOf(t, "G"))

	_, err = m.Assign(ctx, "X", "")
	require.NoError(t, err)
	assert.Equal(t, []models.InternID{"C"}, f.membersOf(t, "G"))

	snap, err := f.loader.Load(ctx)
	require.NoError(t, err)
	for _, g := range snap.Groups {
		assert.False(t, g.HasMember("X"))
	}
}

func TestAssign_MovesBetweenSupervisors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "Sam")
	f.supervisor(t, "S2", "Sue")
	f.group(t, "G1", "Sam's Group", "S1", "A", "B")
	f.group(t, "G2", "Sue's Group", "S2", "A")

	g, err := f.mutator(PolicyFirst).Assign(ctx, "A", "S2")
	require.NoError(t, err)
	assert.Equal(t, models.GroupID("G2"), g.ID)

	// дубликат в G2 остается единственным членством после снятия с G1
	assert.Equal(t, []models.InternID{"B"}, f.membersOf(t, "G1"))
	assert.Equal(t, []models.InternID{"A"}, f.membersOf(t, "G2"))
	assertMembershipInvariants(t, f.groups(t))
}

func TestAssign_SameSupervisorIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G1", "Sam's Group", "S1", "A")

	g, err := f.mutator(PolicyFirst).Assign(ctx, "A", "S1")
	require.NoError(t, err)
	assert.Equal(t, models.GroupID("G1"), g.ID)
	assert.Equal(t, []models.InternID{"A"}, f.membersOf(t, "G1"))
	assert.Empty(t, f.publisher.Events())
}

func TestAssign_ValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G1", "Sam's Group", "S1", "A")
	m := f.mutator(PolicyFirst)

	_, err := m.Assign(ctx, "A", "missing")
	assert.ErrorIs(t, err, models.ErrSupervisorNotFound)

	_, err = m.Assign(ctx, "nobody", "S1")
	assert.ErrorIs(t, err, models.ErrInternNotFound)
	assert.True(t, IsNotFound(err))

	assert.Equal(t, []models.InternID{"A"}, f.membersOf(t, "G1"))
}

func TestAssign_TargetGroupPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy TargetGroupPolicy
		want   models.GroupID
	}{
		{name: "first group by id", policy: PolicyFirst, want: "G1"},
		{name: "default named group", policy: PolicyNamed, want: "G2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.intern(t, "A")
			f.intern(t, "B")
			f.intern(t, "C")
			f.supervisor(t, "S1", "Sam")
			f.group(t, "G1", "Research", "S1", "B")
			f.group(t, "G2", "Sam's Group", "S1", "C")

			g, err := f.mutator(tt.policy).Assign(context.Background(), "A", "S1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.ID)
			assert.True(t, g.HasMember("A"))
		})
	}
}

func TestAssign_FirstPolicyPrefersOldestGroupWithGeneratedIDs(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 20; round++ {
		store := repository.NewMemoryStore()
		f := &fixture{
			store:     store,
			loader:    repository.NewSnapshotLoader(store, zerolog.Nop()),
			publisher: &integration.RecordingPublisher{},
		}
		f.intern(t, "A")
		f.intern(t, "B")
		f.intern(t, "C")
		f.supervisor(t, "S1", "Sam")
		m := f.mutator(PolicyFirst)

		first, err := m.Assign(ctx, "A", "S1")
		require.NoError(t, err)

		_, err = store.Push(ctx, models.CollectionGroups, models.Group{
			Name:         "Team B",
			SupervisorID: "S1",
			InternIDs:    []models.InternID{"C"},
		})
		require.NoError(t, err)

		g, err := m.Assign(ctx, "B", "S1")
		require.NoError(t, err)
		require.Equal(t, first.ID, g.ID, "round %d", round)
		assert.Equal(t, []models.InternID{"A", "B"}, f.membersOf(t, string(first.ID)))
	}
}

func TestAssign_NamedPolicyCreatesMissingDefaultGroup(t *testing.T) {
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G1", "Research", "S1", "B")

	g, err := f.mutator(PolicyNamed).Assign(context.Background(), "A", "S1")
	require.NoError(t, err)
	assert.Equal(t, models.GroupID("new-001"), g.ID)
	assert.Equal(t, "Sam's Group", g.Name)
	assert.Len(t, f.groups(t), 2)
}

type failingPushStore struct {
	*repository.MemoryStore
}

func (s failingPushStore) Push(ctx context.Context, collection models.Collection, doc interface{}) (string, error) {
	return "", errors.New("connection reset")
}

func TestAssign_FailureMidSequenceLeavesInternUngrouped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.supervisor(t, "S1", "Sam")
	f.supervisor(t, "S2", "Sue")
	f.group(t, "G1", "Sam's Group", "S1", "A")

	loader := repository.NewSnapshotLoader(failingPushStore{f.store}, zerolog.Nop())
	m := NewMutator(loader, PolicyFirst, f.publisher, zerolog.Nop())

	_, err := m.Assign(ctx, "A", "S2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create group")

	// удаление уже выполнено, добавления не было: интерн потерян, но не задублирован
	assert.Empty(t, f.groups(t))
	assert.Equal(t, []models.EventType{models.EventGroupDeleted}, f.publisher.Types())
}

func TestBulkAssign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, id := range []string{"A", "B", "C", "D"} {
		f.intern(t, id)
	}
	f.supervisor(t, "S1", "Sam")
	f.supervisor(t, "S2", "Sue")
	f.group(t, "G1", "Sam's Group", "S1", "A")
	f.group(t, "G2", "Sue's Group", "S2", "B", "C")
	f.group(t, "G3", "Sue's Other", "S2", "C", "D")

	g, err := f.mutator(PolicyFirst).BulkAssign(ctx, []models.InternID{"B", "C", "A", "B"}, "S1")
	require.NoError(t, err)
	assert.Equal(t, models.GroupID("G1"), g.ID)
	assert.Equal(t, []models.InternID{"A", "B", "C"}, g.InternIDs)

	groups := f.groups(t)
	require.Len(t, groups, 2)
	assert.Equal(t, models.GroupID("G1"), groups[0].ID)
	assert.Equal(t, models.GroupID("G3"), groups[1].ID)
	assert.Equal(t, []models.InternID{"D"}, groups[1].InternIDs)
	assertMembershipInvariants(t, groups)
}

func TestBulkAssign_CreatesGroupAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "Sam")
	m := f.mutator(PolicyFirst)

	_, err := m.BulkAssign(ctx, nil, "S1")
	assert.ErrorIs(t, err, models.ErrEmptyInternIDList)

	_, err = m.BulkAssign(ctx, []models.InternID{"A", "ghost"}, "S1")
	assert.ErrorIs(t, err, models.ErrInternNotFound)
	assert.Empty(t, f.groups(t))

	g, err := m.BulkAssign(ctx, []models.InternID{"B", "A"}, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Sam's Group", g.Name)
	assert.Equal(t, []models.InternID{"B", "A"}, f.membersOf(t, string(g.ID)))
}

func TestMoveIntern(t *testing.T) {
	tests := []struct {
		name       string
		intern     models.InternID
		to         models.GroupID
		wantGroups map[models.GroupID][]models.InternID
		wantErr    error
	}{
		{
			name:   "between groups",
			intern: "A",
			to:     "G2",
			wantGroups: map[models.GroupID][]models.InternID{
				"G1": {"B"},
				"G2": {"C", "A"},
				"G3": {"D"},
			},
		},
		{
			name:   "sole member empties source",
			intern: "D",
			to:     "G2",
			wantGroups: map[models.GroupID][]models.InternID{
				"G1": {"A", "B"},
				"G2": {"C", "D"},
			},
		},
		{
			name:   "into own group keeps membership",
			intern: "D",
			to:     "G3",
			wantGroups: map[models.GroupID][]models.InternID{
				"G1": {"A", "B"},
				"G2": {"C"},
				"G3": {"D"},
			},
		},
		{
			name:    "unknown target",
			intern:  "A",
			to:      "G9",
			wantErr: models.ErrGroupNotFound,
			wantGroups: map[models.GroupID][]models.InternID{
				"G1": {"A", "B"},
				"G2": {"C"},
				"G3": {"D"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, id := range []string{"A", "B", "C", "D"} {
				f.intern(t, id)
			}
			f.supervisor(t, "S1", "Sam")
			f.group(t, "G1", "Alpha", "S1", "A", "B")
			f.group(t, "G2", "Beta", "S1", "C")
			f.group(t, "G3", "Gamma", "S1", "D")

			err := f.mutator(PolicyFirst).MoveIntern(context.Background(), tt.intern, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			groups := f.groups(t)
			got := make(map[models.GroupID][]models.InternID, len(groups))
			for _, g := range groups {
				got[g.ID] = g.InternIDs
			}
			assert.Equal(t, tt.wantGroups, got)
			assertMembershipInvariants(t, groups)
		})
	}
}

func TestMoveIntern_IntoOwnGroupPreservesRecord(t *testing.T) {
	f := newFixture(t)
	f.intern(t, "D")
	f.supervisor(t, "S1", "Sam")
	require.NoError(t, f.store.Set(context.Background(), models.CollectionGroups, "G3", models.Group{
		ID:           "G3",
		Name:         "Gamma",
		Description:  "night shift",
		SupervisorID: "S1",
		InternIDs:    []models.InternID{"D"},
	}))

	require.NoError(t, f.mutator(PolicyFirst).MoveIntern(context.Background(), "D", "G3"))

	g, err := repository.GetGroup(context.Background(), f.store, "G3")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", g.Name)
	assert.Equal(t, "night shift", g.Description)
	assert.Equal(t, models.SupervisorID("S1"), g.SupervisorID)
	assert.NotContains(t, f.publisher.Types(), models.EventGroupDeleted)
}

func TestAddAndRemoveMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G1", "Alpha", "S1", "A")
	m := f.mutator(PolicyFirst)

	require.NoError(t, m.AddMember(ctx, "G1", "B"))
	require.NoError(t, m.AddMember(ctx, "G1", "B"))
	assert.Equal(t, []models.InternID{"A", "B"}, f.membersOf(t, "G1"))

	assert.ErrorIs(t, m.AddMember(ctx, "G1", "ghost"), models.ErrInternNotFound)
	assert.ErrorIs(t, m.AddMember(ctx, "nope", "A"), models.ErrGroupNotFound)

	require.NoError(t, m.RemoveMember(ctx, "G1", "A"))
	assert.Equal(t, []models.InternID{"B"}, f.membersOf(t, "G1"))

	require.NoError(t, m.RemoveMember(ctx, "G1", "B"))
	assert.Empty(t, f.groups(t))
}

func TestDetachIntern(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.intern(t, "A")
	f.intern(t, "B")
	f.supervisor(t, "S1", "Sam")
	f.group(t, "G1", "Alpha", "S1", "A", "B")
	f.group(t, "G2", "Beta", "S1", "A")

	require.NoError(t, f.mutator(PolicyFirst).DetachIntern(ctx, "A"))

	groups := f.groups(t)
	require.Len(t, groups, 1)
	assert.Equal(t, []models.InternID{"B"}, groups[0].InternIDs)
}

func TestMutationSequenceKeepsInvariants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		f.intern(t, id)
	}
	f.supervisor(t, "S1", "Sam")
	f.supervisor(t, "S2", "Sue")
	m := f.mutator(PolicyFirst)

	steps := []func() error{
		func() error { _, err := m.Assign(ctx, "A", "S1"); return err },
		func() error { _, err := m.Assign(ctx, "B", "S2"); return err },
		func() error { _, err := m.BulkAssign(ctx, []models.InternID{"C", "D", "B"}, "S1"); return err },
		func() error { _, err := m.Assign(ctx, "E", "S2"); return err },
		func() error { _, err := m.Assign(ctx, "A", "S2"); return err },
		func() error { _, err := m.Assign(ctx, "E", ""); return err },
	}

	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		assertMembershipInvariants(t, f.groups(t))
	}

	snap, err := f.loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Groups, 2)
	assert.Equal(t, []models.InternID{"C", "D", "B"}, snap.Groups[0].InternIDs)
	assert.Equal(t, []models.InternID{"A"}, snap.Groups[1].InternIDs)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyFirst, p)

	p, err = ParsePolicy("named")
	require.NoError(t, err)
	assert.Equal(t, PolicyNamed, p)

	_, err = ParsePolicy("largest")
	assert.Error(t, err)
}

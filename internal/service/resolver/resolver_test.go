package resolver

import (
	"testing"

	"github.com/RubachokBoss/internhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Interns: []models.Intern{
			{UID: "a", Name: "Alice"},
			{UID: "b", Name: "Bob", Nickname: "Bobby"},
			{UID: "c", Name: "Carol"},
			{UID: "d", Name: "Dave"},
		},
		Supervisors: []models.Supervisor{
			{UID: "s1", Name: "Sam"},
			{UID: "s2", Name: "Sue"},
		},
		Groups: []models.Group{
			{ID: "g1", Name: "Sam's Group", SupervisorID: "s1", InternIDs: []models.InternID{"a", "b"}},
			{ID: "g2", Name: "Sue's Group", SupervisorID: "s2", InternIDs: []models.InternID{"c", "ghost"}},
			{ID: "g3", Name: "Orphans", SupervisorID: "gone", InternIDs: []models.InternID{"a"}},
		},
	}
}

func TestResolver_GroupOfAndSupervisorOf(t *testing.T) {
	r := New(testSnapshot())

	tests := []struct {
		name           string
		intern         models.InternID
		wantGroup      models.GroupID
		wantSupervisor models.SupervisorID
		wantNoGroup    bool
	}{
		{name: "member", intern: "b", wantGroup: "g1", wantSupervisor: "s1"},
		{name: "second group", intern: "c", wantGroup: "g2", wantSupervisor: "s2"},
		{name: "duplicate claim resolves to lowest group id", intern: "a", wantGroup: "g1", wantSupervisor: "s1"},
		{name: "no group", intern: "d", wantNoGroup: true},
		{name: "unknown intern", intern: "zzz", wantNoGroup: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := r.GroupOf(tt.intern)
			s, sok := r.SupervisorOf(tt.intern)
			if tt.wantNoGroup {
				assert.False(t, ok)
				assert.False(t, sok)
				assert.Nil(t, s)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantGroup, g.ID)
			require.True(t, sok)
			assert.Equal(t, tt.wantSupervisor, s.UID)
		})
	}
}

func TestResolver_SupervisorOfGroupWithDeletedSupervisor(t *testing.T) {
	snap := testSnapshot()
	snap.Groups = snap.Groups[2:]
	r := New(snap)

	g, ok := r.GroupOf("a")
	require.True(t, ok)
	assert.Equal(t, models.GroupID("g3"), g.ID)

	_, ok = r.SupervisorOf("a")
	assert.False(t, ok)
	assert.Equal(t, UnknownSupervisor, r.SupervisorName(g.SupervisorID))
}

func TestResolver_Members(t *testing.T) {
	r := New(testSnapshot())

	members := r.Members("g2")
	require.Len(t, members, 2)
	assert.Equal(t, models.InternRef{ID: "c", Name: "Carol", Resolved: true}, members[0])
	assert.Equal(t, models.InternRef{ID: "ghost", Name: UnknownIntern}, members[1])

	assert.Equal(t, "Bobby", r.Members("g1")[1].Name)
	assert.Nil(t, r.Members("missing"))
}

func TestResolver_ResolveTargets(t *testing.T) {
	r := New(testSnapshot())

	tests := []struct {
		name           string
		audience       models.TargetAudience
		targetIDs      []string
		wantInterns    []models.InternID
		wantLabels     []string
		wantUnresolved []UnresolvedReference
	}{
		{
			name:        "all",
			audience:    models.AudienceAll,
			wantInterns: []models.InternID{"a", "b", "c", "d"},
			wantLabels:  []string{AllInternsLabel},
		},
		{
			name:           "individual keeps unknown as placeholder",
			audience:       models.AudienceIndividual,
			targetIDs:      []string{"c", "nope", "a"},
			wantInterns:    []models.InternID{"a", "c"},
			wantLabels:     []string{"Carol", UnknownIntern, "Alice"},
			wantUnresolved: []UnresolvedReference{{Kind: ReferenceIntern, ID: "nope"}},
		},
		{
			name:        "group union deduplicates",
			audience:    models.AudienceGroup,
			targetIDs:   []string{"g3", "g1"},
			wantInterns: []models.InternID{"a", "b"},
			wantLabels:  []string{"Orphans", "Sam's Group"},
		},
		{
			name:        "unknown group and unknown member",
			audience:    models.AudienceGroup,
			targetIDs:   []string{"g2", "g9"},
			wantInterns: []models.InternID{"c"},
			wantLabels:  []string{"Sue's Group", UnknownGroup},
			wantUnresolved: []UnresolvedReference{
				{Kind: ReferenceIntern, ID: "ghost"},
				{Kind: ReferenceGroup, ID: "g9"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := r.ResolveTargets(tt.audience, tt.targetIDs)
			assert.Equal(t, tt.wantInterns, set.InternIDs())
			assert.Equal(t, tt.wantLabels, set.Labels())
			assert.Equal(t, tt.wantUnresolved, set.Unresolved)
		})
	}
}

func TestResolver_ResolveAllIsIdempotent(t *testing.T) {
	snap := testSnapshot()
	// порядок входа не влияет на порядок результата
	snap.Interns[0], snap.Interns[3] = snap.Interns[3], snap.Interns[0]
	r := New(snap)

	first := r.ResolveTargets(models.AudienceAll, nil)
	second := r.ResolveTargets(models.AudienceAll, []string{})
	assert.Equal(t, first.InternIDs(), second.InternIDs())
	assert.Equal(t, []models.InternID{"a", "b", "c", "d"}, first.InternIDs())
}

func TestResolver_Includes(t *testing.T) {
	r := New(testSnapshot())

	assert.True(t, r.Includes(models.AudienceAll, nil, "d"))
	assert.True(t, r.Includes(models.AudienceIndividual, []string{"d"}, "d"))
	assert.False(t, r.Includes(models.AudienceIndividual, []string{"a"}, "d"))
	assert.True(t, r.Includes(models.AudienceGroup, []string{"g2"}, "c"))
	assert.False(t, r.Includes(models.AudienceGroup, []string{"g2"}, "a"))
	assert.False(t, r.Includes("everyone", []string{"a"}, "a"))
}

func TestResolver_SupervisorQueries(t *testing.T) {
	snap := testSnapshot()
	snap.Groups = append(snap.Groups, models.Group{ID: "g4", Name: "Sam's Second", SupervisorID: "s1", InternIDs: []models.InternID{"d", "a"}})
	r := New(snap)

	groups := r.GroupsOfSupervisor("s1")
	require.Len(t, groups, 2)
	assert.Equal(t, models.GroupID("g1"), groups[0].ID)
	assert.Equal(t, models.GroupID("g4"), groups[1].ID)

	interns := r.InternsOfSupervisor("s1")
	ids := make([]models.InternID, 0, len(interns))
	for _, i := range interns {
		ids = append(ids, i.UID)
	}
	assert.Equal(t, []models.InternID{"a", "b", "d"}, ids)
}

func TestResolver_DuplicateMembershipsAndUnassigned(t *testing.T) {
	r := New(testSnapshot())

	dups := r.DuplicateMemberships()
	require.Len(t, dups, 1)
	assert.Equal(t, models.InternID("a"), dups[0].InternID)
	assert.Equal(t, []models.GroupID{"g1", "g3"}, dups[0].GroupIDs)

	unassigned := r.Unassigned()
	require.Len(t, unassigned, 1)
	assert.Equal(t, models.InternID("d"), unassigned[0].UID)
}

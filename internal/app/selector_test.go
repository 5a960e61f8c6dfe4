package app_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_console/internal/app"
	"listing_console/internal/domain"
)

func TestSelectProject_ClearsBelowAndDoesNotAutoSelect(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())
	sel, err := s.SelectBlock(domain.HierarchySelection{}, "b-eco-5")
	require.NoError(t, err)

	sel, err = s.SelectProject(sel, "p-vin")
	require.NoError(t, err)
	assert.Equal(t, "p-vin", sel.ProjectID)
	assert.Empty(t, sel.ZoneID)
	assert.Empty(t, sel.BlockID)
	assert.Len(t, s.VisibleZones(sel), 1)
	assert.Empty(t, s.VisibleBlocks(sel))
}

func TestSelectZone_DerivesProject(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())
	start := domain.HierarchySelection{ProjectID: "p-vin"}

	sel, err := s.SelectZone(start, "z-eco-a")
	require.NoError(t, err)
	assert.Equal(t, "p-eco", sel.ProjectID)
	assert.Equal(t, domain.L("Ecopark", "Ecopark"), sel.ProjectName)
	assert.Equal(t, domain.L("Zone A", "Khu A"), sel.ZoneName)

	ids := []string{}
	for _, b := range s.VisibleBlocks(sel) {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"b-eco-5", "b-eco-6"}, ids)
}

func TestSelectBlock_DerivesZoneAndProject(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())
	sel, err := s.SelectBlock(domain.HierarchySelection{}, "b-vin-5")
	require.NoError(t, err)
	assert.Equal(t, domain.HierarchySelection{
		ProjectID: "p-vin", ProjectName: domain.L("Vinhomes", "Vinhomes"),
		ZoneID: "z-vin-a", ZoneName: domain.L("Zone A", "Khu A"),
		BlockID: "b-vin-5", BlockName: domain.L("Block 5", "Tòa 5"),
	}, sel)
}

func TestSelect_UnknownAndEmptyIDs(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())
	start, _ := s.SelectBlock(domain.HierarchySelection{}, "b-eco-6")

	_, err := s.Select(start, domain.LevelZone, "nope")
	assert.True(t, errors.Is(err, domain.ErrUnknownEntity))

	sel, err := s.Select(start, domain.LevelZone, "")
	require.NoError(t, err)
	assert.Equal(t, "p-eco", sel.ProjectID)
	assert.Empty(t, sel.ZoneID)
	assert.Empty(t, sel.BlockID)
}

func TestReconcile(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())

	t.Run("zone outside project is cleared", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-eco", ZoneID: "z-vin-a", BlockID: "b-vin-5"})
		assert.Equal(t, "p-eco", got.ProjectID)
		assert.Empty(t, got.ZoneID)
		assert.Empty(t, got.BlockID)
	})
	t.Run("block in another zone of the project is cleared", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-eco", ZoneID: "z-eco-b", BlockID: "b-eco-5"})
		assert.Equal(t, "z-eco-b", got.ZoneID)
		assert.Empty(t, got.BlockID)
	})
	t.Run("block of another project clears the zone", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-eco", ZoneID: "z-eco-a", BlockID: "b-vin-5"})
		assert.Equal(t, "p-eco", got.ProjectID)
		assert.Empty(t, got.ZoneID)
		assert.Empty(t, got.BlockID)
	})
	t.Run("block moved to another project clears the zone", func(t *testing.T) {
		moved := app.NewHierarchySelector(domain.NewHierarchyIndex(
			[]domain.HierarchyEntity{ent("p1", "One", "", ""), ent("p2", "Two", "", "")},
			[]domain.HierarchyEntity{ent("z1", "Zone 1", "", "p1"), ent("z2", "Zone 2", "", "p2")},
			[]domain.HierarchyEntity{ent("b1", "Block 1", "", "z2")},
		))
		got := moved.Reconcile(domain.HierarchySelection{ProjectID: "p1", ZoneID: "z1", BlockID: "b1"})
		assert.Equal(t, "p1", got.ProjectID)
		assert.Empty(t, got.ZoneID)
		assert.Empty(t, got.BlockID)
	})
	t.Run("vanished project clears everything", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-gone", ZoneID: "z-eco-a"})
		assert.Equal(t, domain.HierarchySelection{}, got)
	})
	t.Run("block without zone is dropped", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-eco", BlockID: "b-eco-5"})
		assert.Equal(t, "p-eco", got.ProjectID)
		assert.Empty(t, got.BlockID)
	})
	t.Run("names refreshed", func(t *testing.T) {
		got := s.Reconcile(domain.HierarchySelection{ProjectID: "p-eco", ProjectName: domain.L("stale", "")})
		assert.Equal(t, domain.L("Ecopark", "Ecopark"), got.ProjectName)
	})
}

func TestRestore_ByNameWithinResolvedParent(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())

	// legacy record: no ids, names only; "Block 5" exists in both projects
	got := s.Restore(domain.HierarchySelection{
		ProjectName: domain.L("Vinhomes", ""),
		ZoneName:    domain.L("Zone A", ""),
		BlockName:   domain.L("", "Tòa 5"),
	})
	assert.Equal(t, "p-vin", got.ProjectID)
	assert.Equal(t, "z-vin-a", got.ZoneID)
	assert.Equal(t, "b-vin-5", got.BlockID)
}

func TestRestore_ByIDAndUnresolvedNamesKept(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())

	got := s.Restore(domain.HierarchySelection{ProjectID: "p-eco", ZoneID: "z-eco-a"})
	assert.Equal(t, "p-eco", got.ProjectID)
	assert.Equal(t, "z-eco-a", got.ZoneID)
	assert.Empty(t, got.BlockID)

	got = s.Restore(domain.HierarchySelection{
		ProjectName: domain.L("Ecopark", ""),
		ZoneName:    domain.L("Zone Z", ""),
		BlockName:   domain.L("Block 99", ""),
	})
	assert.Equal(t, "p-eco", got.ProjectID)
	assert.Empty(t, got.ZoneID)
	assert.Equal(t, domain.L("Zone Z", ""), got.ZoneName)
	assert.Equal(t, domain.L("Block 99", ""), got.BlockName)

	// reconcile keeps the id-less display names
	again := s.Reconcile(got)
	assert.Equal(t, got, again)
}

func TestRestore_NameMissInResolvedParentStaysThere(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())

	// "Block 6" exists only under Ecopark; the ids pin the record to Vinhomes
	got := s.Restore(domain.HierarchySelection{
		ProjectID: "p-vin",
		ZoneID:    "z-vin-a",
		BlockName: domain.L("Block 6", ""),
	})
	assert.Equal(t, "p-vin", got.ProjectID)
	assert.Equal(t, "z-vin-a", got.ZoneID)
	assert.Empty(t, got.BlockID)
	assert.Equal(t, domain.L("Block 6", ""), got.BlockName)

	// zone unknown: the block name is still searched only inside the project
	got = s.Restore(domain.HierarchySelection{
		ProjectID: "p-vin",
		ZoneName:  domain.L("Zone Q", ""),
		BlockName: domain.L("Block 6", ""),
	})
	assert.Equal(t, "p-vin", got.ProjectID)
	assert.Empty(t, got.ZoneID)
	assert.Empty(t, got.BlockID)

	got = s.Restore(domain.HierarchySelection{ProjectID: "p-vin", BlockName: domain.L("Block 5", "")})
	assert.Equal(t, "b-vin-5", got.BlockID)
	assert.Equal(t, "z-vin-a", got.ZoneID)
}

func TestRestore_GlobalNameSearchWithoutAncestors(t *testing.T) {
	s := app.NewHierarchySelector(testIndex())
	got := s.Restore(domain.HierarchySelection{BlockName: domain.L("Block 6", "")})
	assert.Equal(t, "b-eco-6", got.BlockID)
	assert.Equal(t, "p-eco", got.ProjectID)
}

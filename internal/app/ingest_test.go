package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_console/internal/app"
	"listing_console/internal/domain"
)

func TestSyncKind_Hierarchy(t *testing.T) {
	api := &fakeAPI{master: map[domain.MasterKind][]map[string]any{
		domain.KindZones: {
			{"_id": "z1", "name": map[string]any{"en": "Zone A", "vi": "Khu A"}, "property": map[string]any{"_id": "p1"}, "status": "Active"},
			{"id": "z2", "name": "Zone B", "projectId": "p1", "status": map[string]any{"en": "Inactive"}},
			{"name": "no id"},
		},
	}}
	repo := newFakeRepo()
	cache := newMemCache()
	cache.store["master:hierarchy"] = []byte(`{}`)

	n, err := app.NewIngestionService(api, repo, cache).SyncKind(context.Background(), domain.KindZones)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	zs := repo.hierarchy[domain.LevelZone]
	require.Len(t, zs, 2)
	assert.Equal(t, "p1", zs[0].ParentID)
	assert.Equal(t, "p1", zs[1].ParentID)
	assert.Equal(t, domain.L("Zone B", ""), zs[1].Name)
	assert.Equal(t, "Inactive", zs[1].Status, "status is stored as is")

	assert.Equal(t, []string{"master:hierarchy"}, cache.dels)
	assert.NotContains(t, cache.store, "master:hierarchy")
}

func TestSyncKind_Options(t *testing.T) {
	api := &fakeAPI{master: map[domain.MasterKind][]map[string]any{
		domain.KindCurrencies: {
			{"_id": "c1", "currencyCode": "VND", "name": map[string]any{"en": "Dong"}, "status": "Active"},
		},
	}}
	repo := newFakeRepo()
	cache := newMemCache()

	n, err := app.NewIngestionService(api, repo, cache).SyncKind(context.Background(), domain.KindCurrencies)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "VND", repo.options[domain.KindCurrencies][0].Code)
	assert.Equal(t, []string{"master:options:currencies"}, cache.dels)
}

func TestSyncKind_MissesAreRecorded(t *testing.T) {
	api := &fakeAPI{masterErr: map[domain.MasterKind]error{
		domain.KindLegalDocs: domain.ErrNotFound,
		domain.KindDeposits:  domain.ErrForbidden,
	}}
	repo := newFakeRepo()
	s := app.NewIngestionService(api, repo, newMemCache())

	for _, k := range []domain.MasterKind{domain.KindLegalDocs, domain.KindDeposits} {
		n, err := s.SyncKind(context.Background(), k)
		require.NoError(t, err, k)
		assert.Equal(t, 0, n)
	}
	assert.Equal(t, []miss{{domain.KindLegalDocs, 404}, {domain.KindDeposits, 403}}, repo.misses)
}

func TestSyncKind_UpstreamErrorFails(t *testing.T) {
	api := &fakeAPI{masterErr: map[domain.MasterKind]error{domain.KindUnits: domain.ErrUpstream}}
	repo := newFakeRepo()

	_, err := app.NewIngestionService(api, repo, nil).SyncKind(context.Background(), domain.KindUnits)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Empty(t, repo.misses)

	_, err = app.NewIngestionService(api, repo, nil).SyncKind(context.Background(), "colors")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSyncThenServe(t *testing.T) {
	api := &fakeAPI{master: map[domain.MasterKind][]map[string]any{
		domain.KindProjects: {{"_id": "p1", "name": map[string]any{"en": "Ecopark"}, "status": "Active"}},
		domain.KindZones:    {{"_id": "z1", "name": map[string]any{"en": "Zone A"}, "property": "p1", "status": "Active"}},
	}}
	repo := newFakeRepo()
	cache := newMemCache()
	master := app.NewMasterDataService(repo, cache, time.Minute)
	ing := app.NewIngestionService(api, repo, cache)

	_, err := ing.SyncKind(context.Background(), domain.KindProjects)
	require.NoError(t, err)
	ix, err := master.Hierarchy(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ix.ZonesOf("p1"))

	// the zones sync evicts the cached hierarchy, so the next read sees them
	_, err = ing.SyncKind(context.Background(), domain.KindZones)
	require.NoError(t, err)
	ix, err = master.Hierarchy(context.Background())
	require.NoError(t, err)
	assert.Len(t, ix.ZonesOf("p1"), 1)
}

package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_console/internal/app"
	"listing_console/internal/domain"
)

func TestWizardLoader_OpenCreate(t *testing.T) {
	l := app.NewWizardLoader(&fakeAPI{}, &fakeUploader{}, staticHierarchy{ix: testIndex()}, app.WizardOptions{
		PropertyID: func() string { return "P-1" },
	})
	w, err := l.Open(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, w.EditMode())
	assert.Equal(t, "P-1", w.Draft().PropertyID)
	assert.Len(t, w.Projects(), 2)
}

func TestWizardLoader_OpenEdit(t *testing.T) {
	api := &fakeAPI{listings: map[string]map[string]any{
		"L-5": {
			"_id":    "L-5",
			"status": "Published",
			"listingInformation": map[string]any{
				"listingInformationPropertyId":      "P-5",
				"listingInformationTransactionType": map[string]any{"en": "", "vi": "Bán"},
				"listingInformationProjectName":     map[string]any{"en": "Vinhomes"},
				"listingInformationBlockId":         "b-vin-5",
			},
		},
	}}
	l := app.NewWizardLoader(api, &fakeUploader{}, staticHierarchy{ix: testIndex()}, app.WizardOptions{})

	w, err := l.Open(context.Background(), "L-5")
	require.NoError(t, err)
	assert.True(t, w.EditMode())

	d := w.Draft()
	assert.Equal(t, "P-5", d.PropertyID)
	assert.Equal(t, domain.VariantSale, d.TransactionType)
	assert.Equal(t, domain.StatusPublished, d.Status)
	assert.Equal(t, "z-vin-a", d.Hierarchy.ZoneID, "block id wins and derives its parents")
	assert.Equal(t, "p-vin", d.Hierarchy.ProjectID)
}

func TestWizardLoader_OpenFailures(t *testing.T) {
	l := app.NewWizardLoader(&fakeAPI{}, &fakeUploader{}, staticHierarchy{ix: testIndex()}, app.WizardOptions{})
	_, err := l.Open(context.Background(), "L-missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	l = app.NewWizardLoader(&fakeAPI{}, &fakeUploader{}, staticHierarchy{err: errors.New("redis and mysql down")}, app.WizardOptions{})
	_, err = l.Open(context.Background(), "")
	assert.Error(t, err)
}

func TestWizardLoader_Reload(t *testing.T) {
	src := &staticHierarchy{ix: testIndex()}
	l := app.NewWizardLoader(&fakeAPI{}, &fakeUploader{}, src, app.WizardOptions{})
	w, err := l.Open(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, w.SelectZone("z-vin-a"))

	src.ix = domain.NewHierarchyIndex([]domain.HierarchyEntity{ent("p-eco", "Ecopark", "", "")}, nil, nil)
	require.NoError(t, l.Reload(context.Background(), w))
	assert.Equal(t, domain.HierarchySelection{}, w.Draft().Hierarchy)
}

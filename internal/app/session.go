package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"listing_console/internal/domain"
)

// HierarchySource supplies the active master hierarchy.
type HierarchySource interface {
	Hierarchy(ctx context.Context) (*domain.HierarchyIndex, error)
}

// WizardLoader opens wizard sessions. In edit mode the master hierarchy and
// the record are fetched concurrently and the wizard is ready once both are.
type WizardLoader struct {
	api      domain.ListingAPI
	uploader domain.Uploader
	master   HierarchySource
	opts     WizardOptions
}

func NewWizardLoader(api domain.ListingAPI, up domain.Uploader, master HierarchySource, opts WizardOptions) *WizardLoader {
	return &WizardLoader{api: api, uploader: up, master: master, opts: opts}
}

// Open starts a create-mode wizard when listingID is empty, else hydrates the record.
func (l *WizardLoader) Open(ctx context.Context, listingID string) (*Wizard, error) {
	var (
		ix  *domain.HierarchyIndex
		raw map[string]any
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ix, err = l.master.Hierarchy(gctx)
		if err != nil {
			return fmt.Errorf("load master hierarchy: %w", err)
		}
		return nil
	})
	if listingID != "" {
		g.Go(func() error {
			var err error
			raw, err = l.api.GetListing(gctx, listingID)
			if err != nil {
				return fmt.Errorf("load listing %s: %w", listingID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("listingId", listingID).Msg("wizard load failed")
		return nil, err
	}

	draft := domain.NewDraft()
	if listingID != "" {
		draft = Hydrate(raw, ix)
		if draft.ListingID == "" {
			draft.ListingID = listingID
		}
	}
	return NewWizard(l.api, l.uploader, ix, draft, l.opts), nil
}

// Reload refreshes the master hierarchy of an open wizard.
func (l *WizardLoader) Reload(ctx context.Context, w *Wizard) error {
	ix, err := l.master.Hierarchy(ctx)
	if err != nil {
		return fmt.Errorf("reload master hierarchy: %w", err)
	}
	return w.ReloadMasterData(ix)
}

// Hydrate turns a raw API record into an edit-mode draft, restoring the
// hierarchy selection against the master lists.
func Hydrate(raw map[string]any, ix *domain.HierarchyIndex) domain.ListingDraft {
	d := ToForm(ParseWire(raw))
	d.Hierarchy = NewHierarchySelector(ix).Restore(d.Hierarchy)
	return d
}

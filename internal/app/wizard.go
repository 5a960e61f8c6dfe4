package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"listing_console/internal/domain"
)

type Step int

const (
	StepListingProperty Step = iota + 1
	StepFinancialMedia
	StepContact
	StepSEO
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepListingProperty:
		return "listingProperty"
	case StepFinancialMedia:
		return "financialMedia"
	case StepContact:
		return "contact"
	case StepSEO:
		return "seo"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// NewPropertyID is the default generator for create mode.
func NewPropertyID() string {
	return "P-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

type WizardOptions struct {
	// UploadConcurrency bounds AttachMediaBatch; <= 0 means 4.
	UploadConcurrency int
	PropertyID        func() string
}

// Wizard owns one draft. It is not safe for concurrent use; callers serialize
// access per session.
type Wizard struct {
	api      domain.ListingAPI
	uploader domain.Uploader
	sel      HierarchySelector
	opts     WizardOptions

	draft  domain.ListingDraft
	step   Step
	closed bool
}

// NewWizard starts a wizard in create mode when draft has no ListingID and in
// edit mode otherwise. A create-mode draft without a propertyId gets one.
func NewWizard(api domain.ListingAPI, up domain.Uploader, ix *domain.HierarchyIndex, draft domain.ListingDraft, opts WizardOptions) *Wizard {
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 4
	}
	if opts.PropertyID == nil {
		opts.PropertyID = NewPropertyID
	}
	if draft.ListingID == "" && draft.PropertyID == "" {
		draft.PropertyID = opts.PropertyID()
	}
	return &Wizard{
		api:      api,
		uploader: up,
		sel:      NewHierarchySelector(ix),
		opts:     opts,
		draft:    draft.Clone(),
		step:     StepListingProperty,
	}
}

func (w *Wizard) Draft() domain.ListingDraft { return w.draft.Clone() }
func (w *Wizard) Step() Step                 { return w.step }
func (w *Wizard) EditMode() bool             { return w.draft.ListingID != "" }
func (w *Wizard) Closed() bool               { return w.closed }

func (w *Wizard) VisibleZones() []domain.HierarchyEntity {
	return w.sel.VisibleZones(w.draft.Hierarchy)
}
func (w *Wizard) VisibleBlocks() []domain.HierarchyEntity {
	return w.sel.VisibleBlocks(w.draft.Hierarchy)
}
func (w *Wizard) Projects() []domain.HierarchyEntity { return w.sel.Index().Projects() }

// FinancialFields are the fields the financial step renders for the active variant.
func (w *Wizard) FinancialFields() []domain.FinancialField {
	return domain.FieldsFor(w.draft.TransactionType)
}

func (w *Wizard) open() error {
	if w.closed {
		return domain.ErrSessionClosed
	}
	return nil
}

// Patch applies fn to a copy of the draft. The copy replaces the draft only if
// fn succeeds and the fields owned by dedicated operations are unchanged.
func (w *Wizard) Patch(fn func(*domain.ListingDraft) error) error {
	if err := w.open(); err != nil {
		return err
	}
	next := w.draft.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := w.checkPatch(next); err != nil {
		return err
	}
	w.draft = next.Clone()
	return nil
}

func (w *Wizard) checkPatch(next domain.ListingDraft) error {
	cur := w.draft
	var errs domain.ValidationErrors
	if next.ListingID != cur.ListingID {
		errs = append(errs, domain.ValidationError{Field: "listingId", Reason: "read-only"})
	}
	if cur.PropertyID != "" && next.PropertyID != cur.PropertyID {
		errs = append(errs, domain.ValidationError{Field: "propertyId", Reason: "read-only once assigned"})
	}
	if next.TransactionType != cur.TransactionType || next.TransactionTypeLabel != cur.TransactionTypeLabel {
		errs = append(errs, domain.ValidationError{Field: "transactionType", Reason: "change it through the transaction type selector"})
	}
	if next.Hierarchy != cur.Hierarchy {
		errs = append(errs, domain.ValidationError{Field: "hierarchy", Reason: "change it through project, zone or block selection"})
	}
	if next.Status != cur.Status {
		errs = append(errs, domain.ValidationError{Field: "status", Reason: "set on submission"})
	}
	return errs.OrNil()
}

// PatchJSON merges a JSON document onto the draft. Objects merge field by
// field, so {"listing":{"title":{"vi":"..."}}} leaves the English title as is;
// arrays replace.
func (w *Wizard) PatchJSON(body []byte) error {
	return w.Patch(func(d *domain.ListingDraft) error {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(d); err != nil {
			return domain.ValidationError{Field: "body", Reason: err.Error()}
		}
		return nil
	})
}

// SetTransactionType switches the variant. Financial values of other variants
// stay in the draft.
func (w *Wizard) SetTransactionType(raw any) error {
	if err := w.open(); err != nil {
		return err
	}
	v, err := domain.ParseVariant(raw)
	if err != nil {
		return err
	}
	w.draft.TransactionType = v
	w.draft.TransactionTypeLabel = v.Label()
	return nil
}

func (w *Wizard) Select(level domain.Level, id string) error {
	if err := w.open(); err != nil {
		return err
	}
	sel, err := w.sel.Select(w.draft.Hierarchy, level, id)
	if err != nil {
		return err
	}
	w.draft.Hierarchy = sel
	return nil
}

func (w *Wizard) SelectProject(id string) error { return w.Select(domain.LevelProject, id) }
func (w *Wizard) SelectZone(id string) error    { return w.Select(domain.LevelZone, id) }
func (w *Wizard) SelectBlock(id string) error   { return w.Select(domain.LevelBlock, id) }

func (w *Wizard) ClearHierarchy(level domain.Level) error {
	if err := w.open(); err != nil {
		return err
	}
	w.draft.Hierarchy = Clear(w.draft.Hierarchy, level)
	return nil
}

// ReloadMasterData swaps the master lists and reconciles the selection.
func (w *Wizard) ReloadMasterData(ix *domain.HierarchyIndex) error {
	if err := w.open(); err != nil {
		return err
	}
	w.sel = NewHierarchySelector(ix)
	before := w.draft.Hierarchy
	w.draft.Hierarchy = w.sel.Reconcile(before)
	if before.ProjectID != w.draft.Hierarchy.ProjectID ||
		before.ZoneID != w.draft.Hierarchy.ZoneID ||
		before.BlockID != w.draft.Hierarchy.BlockID {
		log.Info().
			Str("propertyId", w.draft.PropertyID).
			Str("project", w.draft.Hierarchy.ProjectID).
			Str("zone", w.draft.Hierarchy.ZoneID).
			Str("block", w.draft.Hierarchy.BlockID).
			Msg("hierarchy selection cleared after master data reload")
	}
	return nil
}

// SetVisibility flags a field hidden or visible. Values are untouched.
func (w *Wizard) SetVisibility(section domain.Section, field string, hidden bool) error {
	if err := w.open(); err != nil {
		return err
	}
	if !section.Valid() {
		return domain.ValidationError{Field: "section", Reason: fmt.Sprintf("unknown section %q", section)}
	}
	if strings.TrimSpace(field) == "" {
		return domain.ValidationError{Field: "field", Reason: "required"}
	}
	w.draft.Visibility = w.draft.Visibility.Set(section, field, hidden)
	return nil
}

func checkMediaKind(kind domain.MediaKind) error {
	if _, ok := domain.ParseMediaKind(string(kind)); !ok {
		return domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown media kind %q", kind)}
	}
	return nil
}

func (w *Wizard) appendMedia(kind domain.MediaKind, items ...domain.MediaItem) {
	cur := w.draft.Media.Items(kind)
	next := make([]domain.MediaItem, 0, len(cur)+len(items))
	next = append(append(next, cur...), items...)
	w.draft.Media = w.draft.Media.WithItems(kind, next)
}

// AttachMedia uploads one file and appends the stored URL. On failure the
// draft is unchanged.
func (w *Wizard) AttachMedia(ctx context.Context, kind domain.MediaKind, f domain.UploadFile) (domain.MediaItem, error) {
	items, err := w.AttachMediaBatch(ctx, kind, []domain.UploadFile{f})
	if err != nil {
		return domain.MediaItem{}, err
	}
	return items[0], nil
}

// AttachMediaBatch uploads files concurrently and appends them in input order.
// Any failure attaches nothing; files that did upload stay stored but
// unreferenced.
func (w *Wizard) AttachMediaBatch(ctx context.Context, kind domain.MediaKind, files []domain.UploadFile) ([]domain.MediaItem, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	if err := checkMediaKind(kind); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []domain.MediaItem{}, nil
	}

	out := make([]domain.MediaItem, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.UploadConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res, err := w.uploader.Upload(gctx, f, kind)
			if err != nil {
				return fmt.Errorf("%w: upload %s: %w", domain.ErrUpstream, f.Name, err)
			}
			if strings.TrimSpace(res.URL) == "" {
				return fmt.Errorf("%w: upload %s: empty url", domain.ErrUpstream, f.Name)
			}
			out[i] = domain.MediaItem{URL: res.URL, IsServerFile: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Int("files", len(files)).Msg("media upload failed")
		return nil, err
	}
	w.appendMedia(kind, out...)
	return out, nil
}

// AddMediaLink appends an external http(s) URL.
func (w *Wizard) AddMediaLink(kind domain.MediaKind, raw string) (domain.MediaItem, error) {
	if err := w.open(); err != nil {
		return domain.MediaItem{}, err
	}
	if err := checkMediaKind(kind); err != nil {
		return domain.MediaItem{}, err
	}
	raw = strings.TrimSpace(raw)
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.MediaItem{}, domain.ValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}
	item := domain.MediaItem{URL: raw}
	w.appendMedia(kind, item)
	return item, nil
}

func (w *Wizard) RemoveMedia(kind domain.MediaKind, index int) error {
	if err := w.open(); err != nil {
		return err
	}
	if err := checkMediaKind(kind); err != nil {
		return err
	}
	cur := w.draft.Media.Items(kind)
	if index < 0 || index >= len(cur) {
		return domain.ValidationError{Field: "index", Reason: fmt.Sprintf("out of range [0,%d)", len(cur))}
	}
	next := make([]domain.MediaItem, 0, len(cur)-1)
	next = append(append(next, cur[:index]...), cur[index+1:]...)
	w.draft.Media = w.draft.Media.WithItems(kind, next)
	return nil
}

// Next validates the current step and advances. Validation failures keep the
// wizard on the current step.
func (w *Wizard) Next(ctx context.Context) error {
	if err := w.open(); err != nil {
		return err
	}
	if w.step == StepReview {
		return domain.ErrStepBoundary
	}
	if err := w.validateStep(ctx, w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

func (w *Wizard) Prev() error {
	if err := w.open(); err != nil {
		return err
	}
	if w.step == StepListingProperty {
		return domain.ErrStepBoundary
	}
	w.step--
	return nil
}

// Preview is the payload as it would be saved as a draft.
func (w *Wizard) Preview() (domain.WireListing, error) {
	if err := w.open(); err != nil {
		return domain.WireListing{}, err
	}
	return ToWire(w.draft, domain.StatusDraft)
}

// Submit revalidates every step, builds the payload once with status and
// sends it. It returns the listing id. On any error the draft is kept.
func (w *Wizard) Submit(ctx context.Context, status domain.ListingStatus) (string, error) {
	if err := w.open(); err != nil {
		return "", err
	}
	if w.step != StepReview {
		return "", domain.ValidationError{Field: "step", Reason: "submit is only available on the review step"}
	}
	st, err := domain.ParseStatus(string(status))
	if err != nil {
		return "", err
	}
	for s := StepListingProperty; s < StepReview; s++ {
		if err := w.validateStep(ctx, s); err != nil {
			return "", fmt.Errorf("%s: %w", s, err)
		}
	}
	payload, err := ToWire(w.draft, st)
	if err != nil {
		return "", err
	}

	id := w.draft.ListingID
	if id == "" {
		payload.ID = ""
		id, err = w.api.CreateListing(ctx, payload)
	} else {
		err = w.api.UpdateListing(ctx, id, payload)
	}
	if err != nil {
		log.Warn().Err(err).Str("listingId", w.draft.ListingID).Str("status", string(st)).Msg("listing submission failed")
		return "", fmt.Errorf("%w: submit listing: %w", domain.ErrUpstream, err)
	}

	w.draft.ListingID = id
	w.draft.Status = st
	log.Info().Str("listingId", id).Str("propertyId", w.draft.PropertyID).Str("status", string(st)).Msg("listing submitted")
	return id, nil
}

// Cancel discards the draft. Every later call returns ErrSessionClosed.
func (w *Wizard) Cancel() {
	w.closed = true
	w.draft = domain.ListingDraft{}
}

func (w *Wizard) validateStep(ctx context.Context, s Step) error {
	switch s {
	case StepListingProperty:
		return w.validateListing(ctx)
	case StepFinancialMedia:
		return validateFinancial(w.draft).OrNil()
	case StepContact:
		return validateContact(w.draft).OrNil()
	case StepSEO:
		return validateSEO(w.draft).OrNil()
	}
	return nil
}

func (w *Wizard) validateListing(ctx context.Context) error {
	d := w.draft
	var errs domain.ValidationErrors
	if _, err := wireVariantLabel(d); err != nil {
		errs = append(errs, domain.ValidationError{Field: "transactionType", Reason: "unrecognized transaction type"})
	}
	if !d.Listing.Title.HasContent() {
		errs = append(errs, domain.ValidationError{Field: "title", Reason: "required"})
	}
	if d.Hierarchy.ProjectID == "" {
		errs = append(errs, domain.ValidationError{Field: "hierarchy.projectId", Reason: "required"})
	}
	number := strings.TrimSpace(d.Listing.PropertyNumber)
	if number == "" {
		errs = append(errs, domain.ValidationError{Field: "propertyNumber", Reason: "required"})
		return errs
	}
	taken, err := w.api.PropertyNumberTaken(ctx, number, d.ListingID)
	if err != nil {
		log.Warn().Err(err).Str("propertyNumber", number).Msg("property number check failed")
		return fmt.Errorf("%w: property number check: %w", domain.ErrUpstream, err)
	}
	if taken {
		errs = append(errs, domain.ValidationError{Field: "propertyNumber", Reason: "already used by another listing"})
	}
	return errs.OrNil()
}

var numericFinancial = map[domain.FinancialField]bool{
	domain.FieldPrice:         true,
	domain.FieldAgentFee:      true,
	domain.FieldLeasePrice:    true,
	domain.FieldPricePerNight: true,
}

func validateFinancial(d domain.ListingDraft) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(d.Financial.Currency.Code) == "" {
		errs = append(errs, domain.ValidationError{Field: "currency", Reason: "required"})
	}
	for _, f := range domain.RequiredFieldsFor(d.TransactionType) {
		text := strings.TrimSpace(d.Financial.Text(f))
		switch {
		case text == "":
			errs = append(errs, domain.ValidationError{Field: string(f), Reason: "required"})
		case numericFinancial[f] && coerceNumber(text) <= 0:
			errs = append(errs, domain.ValidationError{Field: string(f), Reason: "must be a positive number"})
		}
	}
	return errs
}

func validateContact(d domain.ListingDraft) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if email := strings.TrimSpace(d.Contact.OwnerEmail); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, domain.ValidationError{Field: "ownerEmail", Reason: "invalid email address"})
		}
	}
	return errs
}

func validateSEO(d domain.ListingDraft) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if raw := strings.TrimSpace(d.SEO.CanonicalURL); raw != "" {
		if u, err := url.Parse(raw); err != nil || !u.IsAbs() {
			errs = append(errs, domain.ValidationError{Field: "canonicalUrl", Reason: "must be an absolute URL"})
		}
	}
	return errs
}

// IsValidation reports whether err blocks a step without being a collaborator failure.
func IsValidation(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUnknownVariant)
}

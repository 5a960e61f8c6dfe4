// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"listing_console/internal/adapters/observability"
	"listing_console/internal/app"
	"listing_console/internal/domain"
)

const maxBody = 1 << 20

// MasterReader serves the mirrored master lists.
type MasterReader interface {
	Hierarchy(ctx context.Context) (*domain.HierarchyIndex, error)
	Options(ctx context.Context, kind domain.MasterKind) ([]domain.Option, error)
}

// WizardOpener creates wizards and refreshes their master data.
type WizardOpener interface {
	Open(ctx context.Context, listingID string) (*app.Wizard, error)
	Reload(ctx context.Context, w *app.Wizard) error
}

type Handlers struct {
	Master   MasterReader
	Wizards  WizardOpener
	Sessions *Sessions
}

type problem struct {
	Type   string                   `json:"type"`
	Title  string                   `json:"title"`
	Status int                      `json:"status"`
	Detail string                   `json:"detail,omitempty"`
	Errors []domain.ValidationError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/master", func(r chi.Router) {
		r.Get("/hierarchy", h.getHierarchy)
		r.Get("/options/{kind}", h.getOptions)
	})

	s.mux.Route("/v1/wizards", func(r chi.Router) {
		r.Post("/", h.createWizard)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", h.getWizard)
			r.Delete("/", h.cancelWizard)
			r.Patch("/draft", h.patchDraft)
			r.Put("/transaction-type", h.putTransactionType)
			r.Put("/hierarchy/{level}", h.putHierarchy)
			r.Delete("/hierarchy/{level}", h.deleteHierarchy)
			r.Post("/master/reload", h.reloadMaster)
			r.Put("/visibility/{section}/{field}", h.putVisibility)
			r.Post("/media/{kind}", h.postMedia)
			r.Post("/media/{kind}/links", h.postMediaLinks)
			r.Delete("/media/{kind}/{index}", h.deleteMedia)
			r.Post("/next", h.next)
			r.Post("/prev", h.prev)
			r.Get("/preview", h.preview)
			r.Post("/submit", h.submit)
		})
	})
}

// requestLang prefers ?lang=, then Accept-Language.
func requestLang(r *http.Request) domain.Lang {
	if l, ok := domain.ParseLang(r.URL.Query().Get("lang")); ok {
		return l
	}
	return domain.MatchLang(r.Header.Get("Accept-Language"))
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemDoc(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemDoc(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ves domain.ValidationErrors
	var ve domain.ValidationError
	switch {
	case errors.As(err, &ves):
		writeProblemDoc(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity, Detail: err.Error(), Errors: ves})
	case errors.As(err, &ve):
		writeProblemDoc(w, problem{Type: "about:blank", Title: "Validation Failed", Status: http.StatusUnprocessableEntity, Detail: err.Error(), Errors: []domain.ValidationError{ve}})
	case app.IsValidation(err), errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrUnknownEntity):
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid Value", err.Error())
	case errors.Is(err, domain.ErrSessionClosed):
		writeProblem(w, http.StatusGone, "Gone", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrStepBoundary):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusBadGateway, "Upstream Failure", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "unexpected error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeCached(w http.ResponseWriter, r *http.Request, lang domain.Lang, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Language", string(lang))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return domain.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

// ---- views ----

type entityView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

func entityViews(es []domain.HierarchyEntity, lang domain.Lang) []entityView {
	out := make([]entityView, 0, len(es))
	for _, e := range es {
		out = append(out, entityView{ID: e.ID, Name: e.Name.Get(lang, lang.Other()), ParentID: e.ParentID})
	}
	return out
}

type wizardView struct {
	SessionID       string                  `json:"sessionId"`
	Step            app.Step                `json:"step"`
	EditMode        bool                    `json:"editMode"`
	FinancialFields []domain.FinancialField `json:"financialFields"`
	Projects        []entityView            `json:"projects"`
	Zones           []entityView            `json:"zones"`
	Blocks          []entityView            `json:"blocks"`
	Draft           domain.ListingDraft     `json:"draft"`
}

func newWizardView(sid string, wz *app.Wizard, lang domain.Lang) wizardView {
	return wizardView{
		SessionID:       sid,
		Step:            wz.Step(),
		EditMode:        wz.EditMode(),
		FinancialFields: wz.FinancialFields(),
		Projects:        entityViews(wz.Projects(), lang),
		Zones:           entityViews(wz.VisibleZones(), lang),
		Blocks:          entityViews(wz.VisibleBlocks(), lang),
		Draft:           wz.Draft(),
	}
}

// ---- master data ----

func (h *Handlers) getHierarchy(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	ix, err := h.Master.Hierarchy(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var zones, blocks []domain.HierarchyEntity
	for _, p := range ix.Projects() {
		zs := ix.ZonesOf(p.ID)
		zones = append(zones, zs...)
		for _, z := range zs {
			blocks = append(blocks, ix.BlocksOf(z.ID)...)
		}
	}
	writeCached(w, r, lang, map[string][]entityView{
		"projects": entityViews(ix.Projects(), lang),
		"zones":    entityViews(zones, lang),
		"blocks":   entityViews(blocks, lang),
	})
}

type optionView struct {
	ID   string `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

func (h *Handlers) getOptions(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r)
	kind, ok := domain.ParseMasterKind(chi.URLParam(r, "kind"))
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown master list")
		return
	}
	os, err := h.Master.Options(r.Context(), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]optionView, 0, len(os))
	for _, o := range os {
		out = append(out, optionView{ID: o.ID, Code: o.Code, Name: o.Name.Get(lang, lang.Other())})
	}
	writeCached(w, r, lang, out)
}

// ---- wizard sessions ----

func (h *Handlers) createWizard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ListingID string `json:"listingId"`
	}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, err)
			return
		}
	}
	wz, err := h.Wizards.Open(r.Context(), body.ListingID)
	if err != nil {
		writeError(w, err)
		return
	}
	sid := h.Sessions.Add(wz)
	w.Header().Set("Location", "/v1/wizards/"+sid)
	writeJSON(w, http.StatusCreated, newWizardView(sid, wz, requestLang(r)))
}

// withWizard runs fn under the session lock and answers with the wizard view.
func (h *Handlers) withWizard(w http.ResponseWriter, r *http.Request, fn func(wz *app.Wizard) error) {
	sid := chi.URLParam(r, "sid")
	var view wizardView
	err := h.Sessions.With(sid, func(wz *app.Wizard) error {
		if err := fn(wz); err != nil {
			return err
		}
		view = newWizardView(sid, wz, requestLang(r))
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) getWizard(w http.ResponseWriter, r *http.Request) {
	h.withWizard(w, r, func(wz *app.Wizard) error {
		if wz.Closed() {
			return domain.ErrSessionClosed
		}
		return nil
	})
}

func (h *Handlers) cancelWizard(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	err := h.Sessions.With(sid, func(wz *app.Wizard) error {
		wz.Cancel()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.Sessions.Remove(sid)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) patchDraft(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "unreadable body")
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.PatchJSON(body) })
}

func (h *Handlers) putTransactionType(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TransactionType any `json:"transactionType"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.SetTransactionType(body.TransactionType) })
}

func levelParam(r *http.Request) (domain.Level, error) {
	level, ok := domain.ParseLevel(chi.URLParam(r, "level"))
	if !ok {
		return 0, domain.ValidationError{Field: "level", Reason: "must be project, zone or block"}
	}
	return level, nil
}

func (h *Handlers) putHierarchy(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.Select(level, body.ID) })
}

func (h *Handlers) deleteHierarchy(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.ClearHierarchy(level) })
}

func (h *Handlers) reloadMaster(w http.ResponseWriter, r *http.Request) {
	h.withWizard(w, r, func(wz *app.Wizard) error { return h.Wizards.Reload(r.Context(), wz) })
}

func (h *Handlers) putVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Hidden bool `json:"hidden"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	section := domain.Section(chi.URLParam(r, "section"))
	field := chi.URLParam(r, "field")
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.SetVisibility(section, field, body.Hidden) })
}

func mediaKindParam(r *http.Request) (domain.MediaKind, error) {
	kind, ok := domain.ParseMediaKind(chi.URLParam(r, "kind"))
	if !ok {
		return "", domain.ValidationError{Field: "kind", Reason: "must be images, videos or floorPlans"}
	}
	return kind, nil
}

func (h *Handlers) postMedia(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "expected multipart/form-data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var headers []*multipart.FileHeader
	headers = append(headers, r.MultipartForm.File["files"]...)
	headers = append(headers, r.MultipartForm.File["file"]...)
	if len(headers) == 0 {
		writeError(w, domain.ValidationError{Field: "files", Reason: "no file in form"})
		return
	}

	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "unreadable file "+fh.Filename)
			return
		}
		defer f.Close()
		files = append(files, domain.UploadFile{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: f})
	}

	h.withWizard(w, r, func(wz *app.Wizard) error {
		_, err := wz.AttachMediaBatch(r.Context(), kind, files)
		return err
	})
}

func (h *Handlers) postMediaLinks(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		URLs []string `json:"urls"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error {
		for _, u := range body.URLs {
			if _, err := wz.AddMediaLink(kind, u); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handlers) deleteMedia(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKindParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, domain.ValidationError{Field: "index", Reason: "must be an integer"})
		return
	}
	h.withWizard(w, r, func(wz *app.Wizard) error { return wz.RemoveMedia(kind, idx) })
}

func (h *Handlers) next(w http.ResponseWriter, r *http.Request) {
	h.withWizard(w, r, func(wz *app.Wizard) error {
		from := wz.Step().String()
		err := wz.Next(r.Context())
		observability.ObserveTransition(from, "next", err)
		return err
	})
}

func (h *Handlers) prev(w http.ResponseWriter, r *http.Request) {
	h.withWizard(w, r, func(wz *app.Wizard) error {
		from := wz.Step().String()
		err := wz.Prev()
		observability.ObserveTransition(from, "prev", err)
		return err
	})
}

func (h *Handlers) preview(w http.ResponseWriter, r *http.Request) {
	var payload domain.WireListing
	err := h.Sessions.With(chi.URLParam(r, "sid"), func(wz *app.Wizard) error {
		var err error
		payload, err = wz.Preview()
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	st, err := domain.ParseStatus(body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	var id string
	err = h.Sessions.With(chi.URLParam(r, "sid"), func(wz *app.Wizard) error {
		mode := "create"
		if wz.EditMode() {
			mode = "update"
		}
		var err error
		id, err = wz.Submit(r.Context(), st)
		observability.ObserveSubmission(mode, string(st), err)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"listingId": id, "status": string(st)})
}

package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"listing_console/internal/domain"
)

// ---- listing API ----

type fakeAPI struct {
	mu sync.Mutex

	listings  map[string]map[string]any
	master    map[domain.MasterKind][]map[string]any
	masterErr map[domain.MasterKind]error

	taken     map[string]bool
	takenErr  error
	checks    int
	createErr error
	created   []domain.WireListing
	updated   map[string]domain.WireListing
}

func (f *fakeAPI) GetListing(ctx context.Context, id string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.listings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

func (f *fakeAPI) GetMasterList(ctx context.Context, kind domain.MasterKind) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.masterErr[kind]; err != nil {
		return nil, err
	}
	return f.master[kind], nil
}

func (f *fakeAPI) PropertyNumberTaken(ctx context.Context, number, excludeListingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.takenErr != nil {
		return false, f.takenErr
	}
	return f.taken[number], nil
}

func (f *fakeAPI) CreateListing(ctx context.Context, w domain.WireListing) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, w)
	return "L-new", nil
}

func (f *fakeAPI) UpdateListing(ctx context.Context, id string, w domain.WireListing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = map[string]domain.WireListing{}
	}
	f.updated[id] = w
	return nil
}

// ---- uploader ----

type fakeUploader struct {
	delay map[string]time.Duration
	fail  map[string]bool

	mu    sync.Mutex
	calls int
}

func (u *fakeUploader) Upload(ctx context.Context, f domain.UploadFile, kind domain.MediaKind) (domain.UploadResult, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if d := u.delay[f.Name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return domain.UploadResult{}, ctx.Err()
		}
	}
	if u.fail[f.Name] {
		return domain.UploadResult{}, errors.New("storage unavailable")
	}
	if f.Body != nil {
		_, _ = io.Copy(io.Discard, f.Body)
	}
	return domain.UploadResult{URL: "https://cdn.test/" + string(kind) + "/" + f.Name}, nil
}

// ---- repository ----

type miss struct {
	kind   domain.MasterKind
	status int
}

type fakeRepo struct {
	mu        sync.Mutex
	hierarchy map[domain.Level][]domain.HierarchyEntity
	options   map[domain.MasterKind][]domain.Option
	misses    []miss
	reads     int
	listErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		hierarchy: map[domain.Level][]domain.HierarchyEntity{},
		options:   map[domain.MasterKind][]domain.Option{},
	}
}

func (r *fakeRepo) UpsertHierarchy(ctx context.Context, level domain.Level, es []domain.HierarchyEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hierarchy[level] = es
	return nil
}

func (r *fakeRepo) UpsertOptions(ctx context.Context, kind domain.MasterKind, os []domain.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.options[kind] = os
	return nil
}

func (r *fakeRepo) LogMiss(ctx context.Context, kind domain.MasterKind, status int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, miss{kind, status})
	return nil
}

func (r *fakeRepo) ListHierarchy(ctx context.Context, level domain.Level) ([]domain.HierarchyEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.hierarchy[level], nil
}

func (r *fakeRepo) ListOptions(ctx context.Context, kind domain.MasterKind) ([]domain.Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.options[kind], nil
}

// ---- cache ----

// memCache stores JSON like the redis adapter does.
type memCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func newMemCache() *memCache { return &memCache{store: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = b
	return nil
}

func (c *memCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// ---- master data ----

func ent(id, en, vi, parent string) domain.HierarchyEntity {
	return domain.HierarchyEntity{ID: id, Name: domain.L(en, vi), ParentID: parent, Status: domain.StatusActive}
}

// testIndex: Ecopark{Zone A{Block 5, Block 6}, Zone B{}}, Vinhomes{Zone A{Block 5}}.
func testIndex() *domain.HierarchyIndex {
	return domain.NewHierarchyIndex(
		[]domain.HierarchyEntity{
			ent("p-eco", "Ecopark", "Ecopark", ""),
			ent("p-vin", "Vinhomes", "Vinhomes", ""),
		},
		[]domain.HierarchyEntity{
			ent("z-eco-a", "Zone A", "Khu A", "p-eco"),
			ent("z-eco-b", "Zone B", "Khu B", "p-eco"),
			ent("z-vin-a", "Zone A", "Khu A", "p-vin"),
		},
		[]domain.HierarchyEntity{
			ent("b-eco-5", "Block 5", "Tòa 5", "z-eco-a"),
			ent("b-eco-6", "Block 6", "Tòa 6", "z-eco-a"),
			ent("b-vin-5", "Block 5", "Tòa 5", "z-vin-a"),
		},
	)
}

type staticHierarchy struct {
	ix  *domain.HierarchyIndex
	err error
}

func (s staticHierarchy) Hierarchy(ctx context.Context) (*domain.HierarchyIndex, error) {
	return s.ix, s.err
}

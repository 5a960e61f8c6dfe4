package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"listing_console/internal/domain"
)

const hierarchyCacheKey = "master:hierarchy"

func optionsCacheKey(kind domain.MasterKind) string {
	return fmt.Sprintf("master:options:%s", kind)
}

// hierarchyLists is the cached form of the hierarchy; the index is rebuilt on read.
type hierarchyLists struct {
	Projects []domain.HierarchyEntity `json:"projects"`
	Zones    []domain.HierarchyEntity `json:"zones"`
	Blocks   []domain.HierarchyEntity `json:"blocks"`
}

// MasterDataService serves the mirrored master lists, cache-aside.
type MasterDataService struct {
	repo     domain.MasterDataRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewMasterDataService(r domain.MasterDataRepository, c domain.Cache, ttl time.Duration) *MasterDataService {
	return &MasterDataService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *MasterDataService) Hierarchy(ctx context.Context) (*domain.HierarchyIndex, error) {
	var hl hierarchyLists
	if ok, _ := s.cache.Get(ctx, hierarchyCacheKey, &hl); ok {
		return domain.NewHierarchyIndex(hl.Projects, hl.Zones, hl.Blocks), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for level, dst := range map[domain.Level]*[]domain.HierarchyEntity{
		domain.LevelProject: &hl.Projects,
		domain.LevelZone:    &hl.Zones,
		domain.LevelBlock:   &hl.Blocks,
	} {
		level, dst := level, dst
		g.Go(func() error {
			es, err := s.repo.ListHierarchy(gctx, level)
			if err != nil {
				return fmt.Errorf("list %s: %w", level, err)
			}
			*dst = es
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, hierarchyCacheKey, hl, int(s.cacheTTL.Seconds()))
	return domain.NewHierarchyIndex(hl.Projects, hl.Zones, hl.Blocks), nil
}

// Options returns the active entries of an option list in master order.
func (s *MasterDataService) Options(ctx context.Context, kind domain.MasterKind) ([]domain.Option, error) {
	if _, isLevel := kind.Level(); isLevel {
		return nil, domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("%s is a hierarchy list", kind)}
	}
	if _, ok := domain.ParseMasterKind(string(kind)); !ok {
		return nil, fmt.Errorf("%w: master list %q", domain.ErrNotFound, kind)
	}

	key := optionsCacheKey(kind)
	var out []domain.Option
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	os, err := s.repo.ListOptions(ctx, kind)
	if err != nil {
		return nil, err
	}
	out = domain.ActiveOptions(os)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"listing_console/internal/domain"
)

// IngestionService mirrors master lists from the listing API into the repository.
type IngestionService struct {
	api   domain.ListingAPI
	repo  domain.MasterDataRepository
	cache domain.Cache
}

func NewIngestionService(api domain.ListingAPI, r domain.MasterDataRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{api: api, repo: r, cache: cache}
}

// SyncKind fetches one master list and upserts it. Entries keep their status;
// filtering to Active happens on read. A 404 or 401/403 from the API is
// recorded as a miss and is not an error. Returns the number of rows written.
func (s *IngestionService) SyncKind(ctx context.Context, kind domain.MasterKind) (int, error) {
	if _, ok := domain.ParseMasterKind(string(kind)); !ok {
		return 0, fmt.Errorf("%w: master list %q", domain.ErrNotFound, kind)
	}

	raw, err := s.api.GetMasterList(ctx, kind)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, kind, 404, "not found")
			s.invalidate(ctx, kind)
			return 0, nil
		case errors.Is(err, domain.ErrForbidden):
			_ = s.repo.LogMiss(ctx, kind, 403, "forbidden")
			s.invalidate(ctx, kind)
			return 0, nil
		}
		return 0, fmt.Errorf("fetch %s: %w", kind, err)
	}

	var n int
	if level, ok := kind.Level(); ok {
		es := mapHierarchy(level, raw)
		if err := s.repo.UpsertHierarchy(ctx, level, es); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", kind, err)
		}
		n = len(es)
	} else {
		os := mapOptions(raw)
		if err := s.repo.UpsertOptions(ctx, kind, os); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", kind, err)
		}
		n = len(os)
	}
	if skipped := len(raw) - n; skipped > 0 {
		log.Warn().Str("kind", string(kind)).Int("skipped", skipped).Msg("master entries without id skipped")
	}

	s.invalidate(ctx, kind)
	return n, nil
}

func (s *IngestionService) invalidate(ctx context.Context, kind domain.MasterKind) {
	if s.cache == nil {
		return
	}
	if _, ok := kind.Level(); ok {
		_ = s.cache.Del(ctx, hierarchyCacheKey)
		return
	}
	_ = s.cache.Del(ctx, optionsCacheKey(kind))
}

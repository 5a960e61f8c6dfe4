package domain

import (
	"context"
	"io"
)

type MasterDataRepository interface {
	// Write paths
	UpsertHierarchy(ctx context.Context, level Level, es []HierarchyEntity) error
	UpsertOptions(ctx context.Context, kind MasterKind, os []Option) error
	LogMiss(ctx context.Context, kind MasterKind, status int, reason string) error

	// Read paths
	ListHierarchy(ctx context.Context, level Level) ([]HierarchyEntity, error)
	ListOptions(ctx context.Context, kind MasterKind) ([]Option, error)
}

// ListingAPI is the external listing service. Records come back loosely typed;
// ParseWire gives them shape.
type ListingAPI interface {
	GetListing(ctx context.Context, id string) (map[string]any, error)
	GetMasterList(ctx context.Context, kind MasterKind) ([]map[string]any, error)
	// PropertyNumberTaken reports whether another listing already uses number.
	PropertyNumberTaken(ctx context.Context, number, excludeListingID string) (bool, error)
	CreateListing(ctx context.Context, w WireListing) (string, error)
	UpdateListing(ctx context.Context, id string, w WireListing) error
}

type UploadFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type UploadResult struct {
	URL string `json:"url"`
}

// Uploader stores media; the core keeps only the returned URL.
type Uploader interface {
	Upload(ctx context.Context, f UploadFile, kind MediaKind) (UploadResult, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

package domain

import (
	"context"
	"io"
)

// AssetRef is what the asset store hands back for an upload. Records consume
// it verbatim: the URL is served to clients, the ReferenceID is kept so the
// object can be deleted when its record goes away.
type AssetRef struct {
	ReferenceID string  `json:"reference_id"`
	URL         string  `json:"url"`
	Duration    float64 `json:"duration,omitempty"`
}

// AssetUpload describes an incoming binary asset. The bytes themselves are
// opaque to this system.
type AssetUpload struct {
	File        io.Reader
	Size        int64
	Filename    string
	ContentType string
	Duration    float64
}

// AssetService stores and resolves opaque media assets.
type AssetService interface {
	Upload(ctx context.Context, upload AssetUpload) (*AssetRef, error)
	Delete(ctx context.Context, referenceID string) error
}

package ports

import (
	"context"

	"go.trai.ch/xo/internal/core/domain"
)

// Builder turns content sources into output files.
// Every build updates the build cache and dependency tracker it was constructed with.
//
//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks
type Builder interface {
	// BuildFile renders a single page. On failure the page's previous output is left untouched.
	BuildFile(ctx context.Context, path string) error
	// BuildDirectory renders every page beneath root.
	BuildDirectory(ctx context.Context, root string) (domain.BuildReport, error)
	// CopyPublic mirrors the public directory into the output tree.
	CopyPublic(ctx context.Context) error
}

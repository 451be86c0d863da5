package catalog

import (
	"context"
	"fmt"

	"ProductsAPI/pkg/kit"
)

// Store owns the product collection. Failures the client caused come back
// as *kit.Error (NotFound, Validation).
type Store interface {
	Ping(ctx context.Context) error

	Create(ctx context.Context, in ProductPatch) (Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, q ListQuery) (Page, error)
	Search(ctx context.Context, q string) ([]Product, error)
	Stats(ctx context.Context) (Stats, error)
}

const (
	msgBadPagination = "Page and limit must be positive integers."
	msgBadSearch     = "Search query (q) is required and must be a non-empty string."
)

func errProductNotFound(id string) error {
	return kit.NotFound(fmt.Sprintf("Product with ID %s not found.", id))
}

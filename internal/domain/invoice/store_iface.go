package invoice

import "context"

type StoreAPI interface {
	Create(ctx context.Context, inv Invoice) (Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]Invoice, int, error)
	Get(ctx context.Context, id string) (Invoice, error)
	UpdateHeader(ctx context.Context, id string, header Header) error
	Delete(ctx context.Context, id string) error
}

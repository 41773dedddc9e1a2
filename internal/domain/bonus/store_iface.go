package bonus

import "context"

type StoreAPI interface {
	Upsert(ctx context.Context, records []Record) ([]Record, error)
	List(ctx context.Context, year int) ([]Record, error)
}

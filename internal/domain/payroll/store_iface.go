package payroll

import "context"

type StoreAPI interface {
	ListSources(ctx context.Context, department string) ([]Source, error)
	UpsertEntries(ctx context.Context, period Period, entries []Entry) ([]Entry, error)
	ListEntries(ctx context.Context, period Period) ([]Entry, error)
}

package leads

import "context"

var _ Api = (*Repo)(nil)
var _ Api = (*TestApi)(nil)

type Api interface {
	Add(ctx context.Context, lead *Lead) (*Lead, error)
	Get(ctx context.Context, loanID string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, loanID string) error
	List(ctx context.Context, offset, limit int) ([]Lead, error)
	Count(ctx context.Context) (int, error)
}

package disbursements

import "context"

var _ Api = (*Repo)(nil)
var _ Api = (*TestApi)(nil)

type Api interface {
	Add(ctx context.Context, d *Disbursement) (*Disbursement, error)
	Get(ctx context.Context, loanID string) (*Disbursement, error)
	Update(ctx context.Context, d *Disbursement) error
	Delete(ctx context.Context, loanID string) error
	List(ctx context.Context, offset, limit int) ([]Disbursement, error)
	Count(ctx context.Context) (int, error)
}

package disbursements

import (
	"context"
	"sync"
)

// TestApi is an in-memory Api used in tests.
type TestApi struct {
	mutex   sync.Mutex
	ordered []string
	records map[string]*Disbursement
}

func NewTestApi() *TestApi {
	return &TestApi{
		records: make(map[string]*Disbursement),
	}
}

func (api *TestApi) Add(_ context.Context, d *Disbursement) (*Disbursement, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	d.ID = d.LoanID
	if _, ok := api.records[d.LoanID]; !ok {
		api.ordered = append(api.ordered, d.LoanID)
	}
	api.records[d.LoanID] = d
	return d, nil
}

func (api *TestApi) Get(_ context.Context, loanID string) (*Disbursement, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	d, ok := api.records[loanID]
	if !ok {
		return nil, ErrDisbursementNotFound
	}
	return d, nil
}

func (api *TestApi) Update(_ context.Context, d *Disbursement) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.records[d.LoanID]; !ok {
		return ErrDisbursementNotFound
	}
	d.ID = d.LoanID
	api.records[d.LoanID] = d
	return nil
}

func (api *TestApi) Delete(_ context.Context, loanID string) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.records[loanID]; !ok {
		return ErrDisbursementNotFound
	}
	delete(api.records, loanID)
	for i, id := range api.ordered {
		if id == loanID {
			api.ordered = append(api.ordered[:i], api.ordered[i+1:]...)
			break
		}
	}
	return nil
}

// List returns newest records first, same as the SQL implementation.
func (api *TestApi) List(_ context.Context, offset, limit int) ([]Disbursement, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	var all []Disbursement
	for i := len(api.ordered) - 1 - offset; i >= 0 && len(all) < limit; i-- {
		all = append(all, *api.records[api.ordered[i]])
	}
	return all, nil
}

func (api *TestApi) Count(_ context.Context) (int, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()
	return len(api.ordered), nil
}

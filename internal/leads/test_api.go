package leads

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TestApi is an in-memory Api used in tests.
type TestApi struct {
	mutex   sync.Mutex
	ordered []string
	records map[string]*Lead
}

func NewTestApi() *TestApi {
	return &TestApi{
		records: make(map[string]*Lead),
	}
}

func (api *TestApi) Add(_ context.Context, lead *Lead) (*Lead, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if lead.LoanID == "" {
		lead.LoanID = fmt.Sprintf("%d%05d", time.Now().Year(), len(api.ordered)+1)
	}
	lead.ID = lead.LoanID
	if _, ok := api.records[lead.LoanID]; !ok {
		api.ordered = append(api.ordered, lead.LoanID)
	}
	api.records[lead.LoanID] = lead
	return lead, nil
}

func (api *TestApi) Get(_ context.Context, loanID string) (*Lead, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	lead, ok := api.records[loanID]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

func (api *TestApi) Update(_ context.Context, lead *Lead) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.records[lead.LoanID]; !ok {
		return ErrLeadNotFound
	}
	lead.ID = lead.LoanID
	api.records[lead.LoanID] = lead
	return nil
}

func (api *TestApi) Delete(_ context.Context, loanID string) error {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	if _, ok := api.records[loanID]; !ok {
		return ErrLeadNotFound
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
func (api *TestApi) List(_ context.Context, offset, limit int) ([]Lead, error) {
	api.mutex.Lock()
	defer api.mutex.Unlock()

	var all []Lead
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

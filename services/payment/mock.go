package payment

import (
	"context"
	"fmt"
	"sync"

	"homestay/models"

	"github.com/google/uuid"
)

// MockGateway implements Gateway in memory for development and tests.
type MockGateway struct {
	mu       sync.Mutex
	orders   map[string]Order
	statuses map[string]models.GatewayStatus
	errs     map[string]error
	calls    int
}

// NewMockGateway creates a new mock gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		orders:   make(map[string]Order),
		statuses: make(map[string]models.GatewayStatus),
		errs:     make(map[string]error),
	}
}

func (g *MockGateway) Name() string  { return "mock" }
func (g *MockGateway) KeyID() string { return "mock_key" }

func (g *MockGateway) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("mock: amount must be positive")
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	id := "order_" + uuid.NewString()[:14]
	o := Order{ID: id, Amount: req.Amount, Currency: req.Currency, ClientSecret: "secret_" + id}
	g.orders[o.ID] = o
	g.statuses[o.ID] = models.GatewayStatus{Status: models.GatewayPending}
	return &o, nil
}

func (g *MockGateway) ResumeOrder(ctx context.Context, orderID string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (g *MockGateway) FetchStatus(ctx context.Context, orderID string) (*models.GatewayStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if err, ok := g.errs[orderID]; ok {
		return nil, err
	}
	st, ok := g.statuses[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &st, nil
}

// SetStatus records what FetchStatus reports for orderID.
func (g *MockGateway) SetStatus(orderID string, st models.GatewayStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[orderID] = st
}

// FailFetch makes FetchStatus return err for orderID.
func (g *MockGateway) FailFetch(orderID string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[orderID] = err
}

// FetchCalls returns how many status queries were made.
func (g *MockGateway) FetchCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Orders returns how many orders were opened.
func (g *MockGateway) Orders() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.orders)
}

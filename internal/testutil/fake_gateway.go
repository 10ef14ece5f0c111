package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/servicehq/servicehub/internal/integration/gateway"
)

// FakeGatewayProvider implements gateway.Provider with deterministic order
// references. Set Err to make order creation fail.
type FakeGatewayProvider struct {
	mu      sync.Mutex
	counter int

	Err error
}

func NewFakeGatewayProvider() *FakeGatewayProvider {
	return &FakeGatewayProvider{}
}

var _ gateway.Provider = (*FakeGatewayProvider)(nil)

func (p *FakeGatewayProvider) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string, receipt string) (*gateway.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	p.counter++
	return &gateway.Order{
		OrderRef: fmt.Sprintf("order_test_%06d", p.counter),
		Amount:   amount,
		Currency: currency,
	}, nil
}

// Orders reports how many orders were opened.
func (p *FakeGatewayProvider) Orders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counter
}

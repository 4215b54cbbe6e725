package handler_test

import (
	"context"

	"neoito.app/leadgen/internal/model"
)

type mockLeadGenService struct {
	generateFn func(ctx context.Context, product, customers string) (*model.Generation, error)
	calls      int
}

func (m *mockLeadGenService) Generate(ctx context.Context, product, customers string) (*model.Generation, error) {
	m.calls++
	if m.generateFn != nil {
		return m.generateFn(ctx, product, customers)
	}
	return &model.Generation{}, nil
}

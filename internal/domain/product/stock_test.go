package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/domain/product"
)

func intPtr(v int) *int { return &v }

func TestComputeStockChange(t *testing.T) {
	tests := []struct {
		name         string
		oldStock     int
		req          product.StockRequest
		wantNewStock int
		wantChange   int
		wantOK       bool
	}{
		{
			name:         "absolute set above current",
			oldStock:     5,
			req:          product.StockRequest{Absolute: intPtr(12)},
			wantNewStock: 12,
			wantChange:   7,
			wantOK:       true,
		},
		{
			name:         "absolute set below current",
			oldStock:     10,
			req:          product.StockRequest{Absolute: intPtr(3)},
			wantNewStock: 3,
			wantChange:   -7,
			wantOK:       true,
		},
		{
			name:         "positive delta",
			oldStock:     4,
			req:          product.StockRequest{Delta: intPtr(6)},
			wantNewStock: 10,
			wantChange:   6,
			wantOK:       true,
		},
		{
			name:         "negative delta within stock",
			oldStock:     10,
			req:          product.StockRequest{Delta: intPtr(-4)},
			wantNewStock: 6,
			wantChange:   -4,
			wantOK:       true,
		},
		{
			name:         "negative delta clamped to zero",
			oldStock:     5,
			req:          product.StockRequest{Delta: intPtr(-12)},
			wantNewStock: 0,
			wantChange:   -5,
			wantOK:       true,
		},
		{
			name:         "zero delta",
			oldStock:     7,
			req:          product.StockRequest{Delta: intPtr(0)},
			wantNewStock: 7,
			wantChange:   0,
			wantOK:       true,
		},
		{
			name:     "both absolute and delta rejected",
			oldStock: 5,
			req:      product.StockRequest{Absolute: intPtr(3), Delta: intPtr(1)},
			wantOK:   false,
		},
		{
			name:     "neither absolute nor delta rejected",
			oldStock: 5,
			req:      product.StockRequest{},
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newStock, change, ok := product.ComputeStockChange(tt.oldStock, tt.req)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantNewStock, newStock)
			assert.Equal(t, tt.wantChange, change)
			assert.Equal(t, tt.oldStock+change, newStock, "audit invariant newStock = oldStock + change")
		})
	}
}

func TestInferReason(t *testing.T) {
	assert.Equal(t, "restocked", product.InferReason(5))
	assert.Equal(t, "goods sold", product.InferReason(-3))
	assert.Equal(t, "stock adjusted", product.InferReason(0))
}

package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		reserved     int
		reorderPoint int
		want         Availability
	}{
		{
			name:     "plain subtraction",
			quantity: 10, reserved: 3, reorderPoint: 2,
			want: Availability{Available: 7, IsLowStock: false},
		},
		{
			name:     "at reorder point is low stock",
			quantity: 5, reserved: 0, reorderPoint: 5,
			want: Availability{Available: 5, IsLowStock: true},
		},
		{
			name:     "oversell stays negative",
			quantity: 2, reserved: 5, reorderPoint: 0,
			want: Availability{Available: -3, IsLowStock: false},
		},
		{
			name:     "reservations do not mask low stock",
			quantity: 10, reserved: 9, reorderPoint: 3,
			want: Availability{Available: 1, IsLowStock: false},
		},
		{
			name:     "low stock independent of reservations",
			quantity: 3, reserved: 0, reorderPoint: 3,
			want: Availability{Available: 3, IsLowStock: true},
		},
		{
			name:     "zero everything",
			quantity: 0, reserved: 0, reorderPoint: 0,
			want: Availability{Available: 0, IsLowStock: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.quantity, tc.reserved, tc.reorderPoint))
		})
	}
}

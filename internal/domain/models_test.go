package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   bool
	}{
		{"Pending", OrderStatusPending, true},
		{"Processing", OrderStatusProcessing, true},
		{"Completed", OrderStatusCompleted, true},
		{"Cancelled", OrderStatusCancelled, true},
		{"Unknown value", OrderStatus("shipped"), false},
		{"Empty value", OrderStatus(""), false},
		{"Case sensitive", OrderStatus("Pending"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

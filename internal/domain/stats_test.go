package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverviewStats_StorageMB(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  float64
	}{
		{"zero", 0, 0},
		{"exactly one MB", 1 << 20, 1.0},
		{"rounds to two places", 1_500_000, 1.43},
		{"large catalog", 10 << 30, 10240.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &OverviewStats{StorageBytes: tt.bytes}
			assert.InDelta(t, tt.want, s.StorageMB(), 0.001)
		})
	}
}

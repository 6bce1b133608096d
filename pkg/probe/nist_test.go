package probe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNistIndex(t *testing.T) {
	tests := []struct {
		temperature float64
		want        int
	}{
		{temperature: -10, want: 0},
		{temperature: 0, want: 0},
		{temperature: 4.9, want: 0},
		{temperature: 5, want: 0},
		{temperature: 9.99, want: 0},
		{temperature: 10, want: 1},
		{temperature: 23, want: 3},
		{temperature: 25, want: 4},
		{temperature: 59.9, want: 10},
		{temperature: 60, want: 11},
		{temperature: 64.9, want: 11},
		{temperature: 100, want: 11},
		{temperature: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nistIndex(tt.temperature, 12), "temperature %v", tt.temperature)
	}
}

func TestNISTOffsets(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		want4       float64
		want7       float64
		want10      float64
	}{
		{name: "below range clamps to first bucket", temperature: -5, want4: 0, want7: 0.09, want10: 0.25},
		{name: "5 C", temperature: 5, want4: 0, want7: 0.09, want10: 0.25},
		{name: "10 C", temperature: 10, want4: 0, want7: 0.06, want10: 0.18},
		{name: "25 C", temperature: 25, want4: 0, want7: 0, want10: 0.01},
		{name: "30 C", temperature: 30, want4: 0.01, want7: -0.01, want10: -0.03},
		{name: "45 C", temperature: 45, want4: 0.04, want7: -0.03, want10: -0.14},
		{name: "60 C", temperature: 60, want4: 0.09, want7: -0.03, want10: -0.22},
		{name: "above range clamps to last bucket", temperature: 95, want4: 0.09, want7: -0.03, want10: -0.22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want4, NIST4Offset(tt.temperature), 1e-12)
			assert.InDelta(t, tt.want7, NIST7Offset(tt.temperature), 1e-12)
			assert.InDelta(t, tt.want10, NIST10Offset(tt.temperature), 1e-12)
		})
	}
}

func TestBufferPh(t *testing.T) {
	assert.InDelta(t, 4.01, BufferPh(Standard4, 30), 1e-12)
	assert.InDelta(t, 7.09, BufferPh(Standard7, 5), 1e-12)
	assert.InDelta(t, 9.78, BufferPh(Standard10, 60), 1e-12)
	assert.Equal(t, 0.0, BufferOffset(StandardNone, 25))
}

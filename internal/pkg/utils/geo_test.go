package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(28.6139, 77.2090, 28.6139, 77.2090))
		assert.Equal(t, 0.0, DistanceKm(-33.8688, 151.2093, -33.8688, 151.2093))
	})

	t.Run("symmetric", func(t *testing.T) {
		points := [][2]float64{
			{28.6139, 77.2090},
			{28.4961, 77.0902},
			{41.3851, 2.1734},
			{-33.8688, 151.2093},
			{0, 179.9},
			{0, -179.9},
		}
		for _, a := range points {
			for _, b := range points {
				assert.Equal(t,
					DistanceKm(a[0], a[1], b[0], b[1]),
					DistanceKm(b[0], b[1], a[0], a[1]),
				)
			}
		}
	})

	t.Run("known distance", func(t *testing.T) {
		// Connaught Place -> Cyber Hub, Gurugram
		d := HaversineDistance(28.6315, 77.2167, 28.4961, 77.0902)
		assert.InDelta(t, 19.5, d, 0.5)
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		d := DistanceKm(28.6139, 77.2090, 28.60, 77.21)
		assert.Equal(t, d, math.Round(d*10)/10)
	})
}

func TestCoordinateKey(t *testing.T) {
	assert.Equal(t, "28.600000,77.210000", CoordinateKey(28.6, 77.21))
	assert.Equal(t, CoordinateKey(28.60000001, 77.21), CoordinateKey(28.6, 77.21000004))
	assert.NotEqual(t, CoordinateKey(28.600001, 77.21), CoordinateKey(28.6, 77.21))

	// по обе стороны экватора и нулевого меридиана
	assert.Equal(t, "0.000000,0.000000", CoordinateKey(-0.0000001, -0.0000004))
	assert.Equal(t, CoordinateKey(-0.0000001, 10), CoordinateKey(0.0000001, 10))
	assert.Equal(t, CoordinateKey(5, math.Copysign(0, -1)), CoordinateKey(5, 0))
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(0, 0))
	assert.True(t, ValidateCoordinates(-90, 180))
	assert.False(t, ValidateCoordinates(90.1, 0))
	assert.False(t, ValidateCoordinates(0, -180.5))
	assert.False(t, ValidateCoordinates(math.NaN(), 10))
}

func TestNormalizeRadius(t *testing.T) {
	assert.Equal(t, 5.0, NormalizeRadius(0, 5))
	assert.Equal(t, 5.0, NormalizeRadius(-3, 5))
	assert.Equal(t, 5.0, NormalizeRadius(math.NaN(), 5))
	assert.Equal(t, 5.0, NormalizeRadius(math.Inf(1), 5))
	assert.Equal(t, 12.5, NormalizeRadius(12.5, 5))
}

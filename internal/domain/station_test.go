package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]StationStatus{
		"":             "",
		"operational":  StationStatusOperational,
		"yes":          StationStatusOperational,
		"broken":       StationStatusOutOfOrder,
		"out_of_order": StationStatusOutOfOrder,
		"construction": StationStatusUnderConstruction,
		"weird":        StationStatusUnknown,
	}
	for raw, expected := range tests {
		assert.Equal(t, expected, NormalizeStatus(raw), raw)
	}
}

func TestSpeedFromKW(t *testing.T) {
	assert.Equal(t, "Ultra Fast", SpeedFromKW(150))
	assert.Equal(t, "Fast", SpeedFromKW(50))
	assert.Equal(t, "Rapid", SpeedFromKW(22))
	assert.Equal(t, "Normal", SpeedFromKW(7.4))
	assert.Equal(t, "Slow", SpeedFromKW(3.3))
}

func TestChargingStation_ToRecord(t *testing.T) {
	id := uuid.New()
	s := &ChargingStation{
		ID:             id,
		Name:           "Cyber Hub Fast Charge",
		Lat:            28.4951,
		Lon:            77.0894,
		ConnectorTypes: []string{"CCS", "Type 2"},
		PowerKW:        60,
		PricePerKwh:    18.5,
		TotalPorts:     4,
		Status:         "available",
	}

	rec := s.ToRecord()
	assert.Equal(t, id.String(), rec.ID)
	assert.Equal(t, SourceDatabase, rec.Source)
	assert.Equal(t, DefaultAccess, rec.Access)
	assert.Equal(t, "Unknown Operator", rec.Operator)
	assert.Equal(t, "CCS", rec.Socket)
	assert.Equal(t, "60 kW", rec.Power)
	assert.Equal(t, "Fast", rec.Speed)
	assert.Equal(t, StationStatusOperational, rec.Status)
	require.NotNil(t, rec.Capacity)
	assert.Equal(t, 4, *rec.Capacity)
	require.NotNil(t, rec.PricePerKwh)
	assert.Equal(t, 18.5, *rec.PricePerKwh)
}

func TestBooking_CanCancel(t *testing.T) {
	for status, expected := range map[BookingStatus]bool{
		BookingPending:   true,
		BookingConfirmed: true,
		BookingCompleted: false,
		BookingCancelled: false,
	} {
		b := Booking{Status: status}
		assert.Equal(t, expected, b.CanCancel(), string(status))
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, DefaultOverpassEndpoints, cfg.Overpass.Endpoints)
	assert.Equal(t, 20*time.Second, cfg.Overpass.RequestTimeout)
	assert.Equal(t, 5.0, cfg.Stations.DefaultRadiusKm)
	assert.Equal(t, 120*time.Second, cfg.Payment.SessionTimeout)
	assert.Equal(t, 2*time.Second, cfg.Payment.VerificationDelay)
	assert.Equal(t, int64(100), cfg.Rewards.StartingBalance)
	assert.Equal(t, int64(10), cfg.Rewards.CurrencyPerCoin)
	assert.Equal(t, "INR", cfg.Payment.Currency)

	// defaults must not alias the package-level slice
	cfg.Overpass.Endpoints[0] = "http://changed"
	assert.NotEqual(t, "http://changed", DefaultOverpassEndpoints[0])
}

func TestConfig_ApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Overpass: OverpassConfig{Endpoints: []string{"http://a", "http://b"}},
		Stations: StationsConfig{DefaultRadiusKm: 12},
		Rewards:  RewardsConfig{StartingBalance: 250},
	}
	cfg.applyDefaults()

	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Overpass.Endpoints)
	assert.Equal(t, 12.0, cfg.Stations.DefaultRadiusKm)
	assert.Equal(t, int64(250), cfg.Rewards.StartingBalance)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList(""))
	assert.Equal(t, []string{"a", "b"}, parseList(" a , ,b "))
}

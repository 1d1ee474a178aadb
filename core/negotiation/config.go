package negotiation

import (
	"fmt"
	"time"
)

// Config collects every protocol constant. The thresholds have no documented
// economic derivation; keeping them configurable lets operators tune them
// without rebuilding.
type Config struct {
	SessionTTL      time.Duration `json:"-"`
	SessionTTLMin   int           `json:"session_ttl_minutes"`
	InitialOfferTTL time.Duration `json:"-"`
	InitialTTLMin   int           `json:"initial_offer_ttl_minutes"`
	CounterOfferTTL time.Duration `json:"-"`
	CounterTTLMin   int           `json:"counter_offer_ttl_minutes"`

	// Opening price multipliers per strategy.
	CompetitiveOpen float64 `json:"competitive_open"`
	CooperativeOpen float64 `json:"cooperative_open"`
	AdaptiveSlope   float64 `json:"adaptive_slope"`

	// First counter-offer multipliers per strategy.
	CompetitiveCounter float64 `json:"competitive_counter"`
	CooperativeCounter float64 `json:"cooperative_counter"`
	DefaultCounter     float64 `json:"default_counter"`

	// Convergence: rate = Base + Slope × (elapsed / session TTL).
	ConvergenceBase  float64 `json:"convergence_base"`
	ConvergenceSlope float64 `json:"convergence_slope"`

	// Counter-offers stay inside [ClampLow, ClampHigh] × fair price.
	ClampLow  float64 `json:"clamp_low"`
	ClampHigh float64 `json:"clamp_high"`

	// Auto-accept heuristic thresholds.
	FairBand       float64       `json:"fair_band"`        // within 5% of fair price
	DeadlineWindow time.Duration `json:"-"`                // under 5 minutes remaining
	DeadlineMin    int           `json:"deadline_minutes"` //
	DeadlineBand   float64       `json:"deadline_band"`    // within 15% of fair price
	StallMinOffers int           `json:"stall_min_offers"` // at least 6 offers exchanged
	StallBand      float64       `json:"stall_band"`       // last-3 spread within 10% of fair

	// Success-rate learning.
	InitialSuccessRate float64 `json:"initial_success_rate"`
	SuccessGain        float64 `json:"success_gain"`
	SuccessCap         float64 `json:"success_cap"`
	FailurePenalty     float64 `json:"failure_penalty"`
	FailureFloor       float64 `json:"failure_floor"`
}

// SetDefaults fills unset fields with the standard protocol constants.
func (c *Config) SetDefaults() {
	if c.SessionTTLMin == 0 {
		c.SessionTTLMin = 120
	}
	if c.InitialTTLMin == 0 {
		c.InitialTTLMin = 30
	}
	if c.CounterTTLMin == 0 {
		c.CounterTTLMin = 20
	}
	if c.DeadlineMin == 0 {
		c.DeadlineMin = 5
	}
	c.SessionTTL = time.Duration(c.SessionTTLMin) * time.Minute
	c.InitialOfferTTL = time.Duration(c.InitialTTLMin) * time.Minute
	c.CounterOfferTTL = time.Duration(c.CounterTTLMin) * time.Minute
	c.DeadlineWindow = time.Duration(c.DeadlineMin) * time.Minute

	if c.CompetitiveOpen == 0 {
		c.CompetitiveOpen = 1.3
	}
	if c.CooperativeOpen == 0 {
		c.CooperativeOpen = 1.05
	}
	if c.AdaptiveSlope == 0 {
		c.AdaptiveSlope = 0.4
	}
	if c.CompetitiveCounter == 0 {
		c.CompetitiveCounter = 0.7
	}
	if c.CooperativeCounter == 0 {
		c.CooperativeCounter = 0.85
	}
	if c.DefaultCounter == 0 {
		c.DefaultCounter = 0.8
	}
	if c.ConvergenceBase == 0 {
		c.ConvergenceBase = 0.1
	}
	if c.ConvergenceSlope == 0 {
		c.ConvergenceSlope = 0.4
	}
	if c.ClampLow == 0 {
		c.ClampLow = 0.7
	}
	if c.ClampHigh == 0 {
		c.ClampHigh = 1.5
	}
	if c.FairBand == 0 {
		c.FairBand = 0.05
	}
	if c.DeadlineBand == 0 {
		c.DeadlineBand = 0.15
	}
	if c.StallMinOffers == 0 {
		c.StallMinOffers = 6
	}
	if c.StallBand == 0 {
		c.StallBand = 0.10
	}
	if c.InitialSuccessRate == 0 {
		c.InitialSuccessRate = 0.7
	}
	if c.SuccessGain == 0 {
		c.SuccessGain = 0.02
	}
	if c.SuccessCap == 0 {
		c.SuccessCap = 0.95
	}
	if c.FailurePenalty == 0 {
		c.FailurePenalty = 0.01
	}
	if c.FailureFloor == 0 {
		c.FailureFloor = 0.20
	}
}

// Validate checks internal consistency of the protocol constants.
func (c Config) Validate() error {
	if c.ClampLow >= c.ClampHigh {
		return fmt.Errorf("negotiation: clamp_low must be below clamp_high")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("negotiation: session TTL must be positive")
	}
	if c.FailureFloor >= c.SuccessCap {
		return fmt.Errorf("negotiation: failure_floor must be below success_cap")
	}
	return nil
}

package negotiation

import "fmt"

// Strategy shapes how an agent opens and counters during bargaining.
type Strategy int

const (
	// StrategyCompetitive opens high and concedes slowly.
	StrategyCompetitive Strategy = iota
	// StrategyCooperative opens near fair price and agrees quickly.
	StrategyCooperative
	// StrategyAdaptive scales its opening with the agent's rolling success
	// rate.
	StrategyAdaptive
	// StrategyCollaborative seeks the midpoint with the fair price.
	StrategyCollaborative
)

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyCompetitive:
		return "competitive"
	case StrategyCooperative:
		return "cooperative"
	case StrategyAdaptive:
		return "adaptive"
	case StrategyCollaborative:
		return "collaborative"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a wire string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "competitive":
		return StrategyCompetitive, nil
	case "cooperative":
		return StrategyCooperative, nil
	case "adaptive", "":
		return StrategyAdaptive, nil
	case "collaborative":
		return StrategyCollaborative, nil
	default:
		return 0, fmt.Errorf("unknown negotiation strategy %q", s)
	}
}

// Profile is the per-agent bargaining state. The success rate forms a small
// cross-session learning loop: it rises on agreement and decays on rejection
// or expiry, and feeds back into adaptive opening prices.
type Profile struct {
	AgentID     string   `json:"agent_id"`
	Strategy    Strategy `json:"strategy"`
	SuccessRate float64  `json:"success_rate"`
}

// openingPrice derives the first offer price from the fair market baseline.
func (c *Coordinator) openingPrice(p *Profile, fair float64) float64 {
	price := fair
	switch p.Strategy {
	case StrategyCompetitive:
		price = fair * c.cfg.CompetitiveOpen
	case StrategyCooperative:
		price = fair * c.cfg.CooperativeOpen
	case StrategyAdaptive:
		price = fair * (1.0 + (0.5-p.SuccessRate)*c.cfg.AdaptiveSlope)
	}
	if c.jitter != nil {
		price *= 1 + c.jitter()
	}
	return price
}

// counterPrice derives a counter-offer price. The first counter discounts the
// opposing price per strategy; later rounds narrow the gap between the two
// most recent offers at a rate that accelerates toward the session deadline.
// The result is clamped to the configured band around fair price.
func (c *Coordinator) counterPrice(p *Profile, s *Session, fair float64) float64 {
	last := s.lastOffer()
	current := last.TotalPrice

	var price float64
	if len(s.Offers) == 1 {
		switch p.Strategy {
		case StrategyCompetitive:
			price = current * c.cfg.CompetitiveCounter
		case StrategyCooperative:
			price = current * c.cfg.CooperativeCounter
		case StrategyCollaborative:
			price = (current + fair) / 2
		default:
			price = current * c.cfg.DefaultCounter
		}
	} else {
		elapsed := c.now().Sub(s.CreatedAt)
		progress := elapsed.Seconds() / s.ExpiresAt.Sub(s.CreatedAt).Seconds()
		if progress > 1 {
			progress = 1
		}
		rate := c.cfg.ConvergenceBase + c.cfg.ConvergenceSlope*progress

		prev := s.Offers[len(s.Offers)-2].TotalPrice
		gap := current - prev
		if gap < 0 {
			gap = -gap
		}
		direction := 1.0
		if current >= s.Offers[0].TotalPrice {
			direction = -1
		}
		price = current + gap*rate*direction
	}

	low, high := fair*c.cfg.ClampLow, fair*c.cfg.ClampHigh
	if price < low {
		price = low
	}
	if price > high {
		price = high
	}
	return price
}

package negotiation

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// shouldAutoAccept evaluates the acceptance heuristic after a counter-offer.
// It never fires on the seed offer. It fires when the new offer sits within
// the fair band, when the deadline is close and the offer is reasonable, or
// when many rounds have converged into a narrow price range.
func (c *Coordinator) shouldAutoAccept(s *Session, offer *Offer, fair float64) bool {
	if len(s.Offers) <= 1 || fair <= 0 {
		return false
	}

	diffRatio := math.Abs(offer.TotalPrice-fair) / fair
	if diffRatio < c.cfg.FairBand {
		return true
	}

	if s.ExpiresAt.Sub(c.now()) < c.cfg.DeadlineWindow && diffRatio < c.cfg.DeadlineBand {
		return true
	}

	if len(s.Offers) >= c.cfg.StallMinOffers {
		recent := s.Offers[len(s.Offers)-3:]
		prices := make([]float64, len(recent))
		for i, o := range recent {
			prices[i] = o.TotalPrice
		}
		spread := floats.Max(prices) - floats.Min(prices)
		if spread/fair < c.cfg.StallBand {
			return true
		}
	}
	return false
}

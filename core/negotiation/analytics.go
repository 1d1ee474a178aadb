package negotiation

import (
	"gonum.org/v1/gonum/stat"
)

// ItemStats aggregates outcomes per item type.
type ItemStats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
}

// Analytics summarizes negotiation performance across history.
type Analytics struct {
	TotalSessions      int                  `json:"total_sessions"`
	ActiveSessions     int                  `json:"active_sessions"`
	SuccessRate        float64              `json:"success_rate"`
	AvgDurationSeconds float64              `json:"average_duration_seconds"`
	PerItem            map[string]ItemStats `json:"item_type_success_rates"`
}

// Analytics computes aggregate statistics over closed and active sessions.
func (c *Coordinator) Analytics() Analytics {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := len(c.history) + len(c.sessions)
	agreed := 0
	perItem := make(map[string]ItemStats)
	var durations []float64
	for _, s := range c.history {
		key := s.Kind.String()
		st := perItem[key]
		st.Total++
		if s.Status == StatusAgreed {
			st.Successful++
			agreed++
		}
		perItem[key] = st
		if s.Status == StatusAgreed || s.Status == StatusRejected {
			durations = append(durations, s.UpdatedAt.Sub(s.CreatedAt).Seconds())
		}
	}
	for key, st := range perItem {
		if st.Total > 0 {
			st.SuccessRate = float64(st.Successful) / float64(st.Total)
		}
		perItem[key] = st
	}

	rate := 0.0
	if total > 0 {
		rate = float64(agreed) / float64(total)
	}
	avg := 0.0
	if len(durations) > 0 {
		avg = stat.Mean(durations, nil)
	}
	return Analytics{
		TotalSessions:      total,
		ActiveSessions:     len(c.sessions),
		SuccessRate:        rate,
		AvgDurationSeconds: avg,
		PerItem:            perItem,
	}
}

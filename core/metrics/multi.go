package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAllocation forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAllocation(rec AllocationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAllocation(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordNegotiation forwards the record to sinks that support it.
func (m *MultiSink) RecordNegotiation(rec NegotiationRecord) error {
	for _, s := range m.Sinks {
		if nr, ok := s.(NegotiationRecorder); ok {
			if err := nr.RecordNegotiation(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

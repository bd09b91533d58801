package adapter

// Metrics receives operational counters from the use cases.
type Metrics interface {
	// InterpretationServed counts an interpretation by the path that produced it.
	InterpretationServed(source string)

	// InterpretationFailed counts an interpretation that produced no result.
	InterpretationFailed(reason string)

	// RatesFetched counts a provider call.
	RatesFetched(provider string, ok bool)

	// RecurringGenerated counts transactions generated by the recurrence engine.
	RecurringGenerated(count int)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) InterpretationServed(string) {}
func (NopMetrics) InterpretationFailed(string) {}
func (NopMetrics) RatesFetched(string, bool) {}
func (NopMetrics) RecurringGenerated(int) {}

package dining

// Metrics instruments a dinner. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// MealStarted is called once a philosopher holds both chopsticks,
	// MealFinished right before it puts them down.
	MealStarted(diner string)
	MealFinished(diner string)
	UnheldDrop()
	// WaiterQueue reports how many philosophers are eating and waiting.
	WaiterQueue(eating, waiting int)
}

type nopMetrics struct{}

func (nopMetrics) MealStarted(string)   {}
func (nopMetrics) MealFinished(string)  {}
func (nopMetrics) UnheldDrop()          {}
func (nopMetrics) WaiterQueue(int, int) {}

func NopMetrics() Metrics { return nopMetrics{} }

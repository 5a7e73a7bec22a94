package dining

import (
	"log/slog"
	"sync"
	"testing"
	"time"
)

func testOptions(t *testing.T) Options {
	return Options{
		Context:  t.Context(),
		Logger:   slog.New(slog.DiscardHandler),
		MaxThink: time.Millisecond,
		MaxEat:   time.Millisecond,
	}
}

// mealRecorder checks the table invariants while diners eat: neighbours
// never eat together and no more than limit diners eat at once.
type mealRecorder struct {
	mu         sync.Mutex
	seats      map[string]int
	eating     map[int]bool
	maxEating  int
	violations []string
	waiting    int
}

func newMealRecorder(names []string) *mealRecorder {
	r := &mealRecorder{seats: make(map[string]int), eating: make(map[int]bool)}
	for i, n := range names {
		r.seats[n] = i
	}
	return r
}

func (r *mealRecorder) MealStarted(diner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.seats)
	seat := r.seats[diner]
	if r.eating[(seat+n-1)%n] || r.eating[(seat+1)%n] {
		r.violations = append(r.violations, diner+" ate next to a neighbour")
	}
	if r.eating[seat] {
		r.violations = append(r.violations, diner+" started a second meal")
	}
	r.eating[seat] = true
	r.maxEating = max(r.maxEating, len(r.eating))
}

func (r *mealRecorder) MealFinished(diner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.eating, r.seats[diner])
}

func (r *mealRecorder) UnheldDrop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.violations = append(r.violations, "dropped an unheld chopstick")
}

func (r *mealRecorder) WaiterQueue(_, waiting int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiting = max(r.waiting, waiting)
}

func (r *mealRecorder) result() (maxEating int, violations []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxEating, append([]string(nil), r.violations...)
}

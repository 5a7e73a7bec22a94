// Package metrics holds the backend-neutral instrumentation primitives shared
// by the actor runtime and its consumers. Concrete backends live under
// adapters/ (see adapters/prometheus).
package metrics

// Timer measures the duration of one operation. Create it when the operation
// starts and call ObserveDuration when it completes:
//
//	defer m.MessageDuration("eat").ObserveDuration()
type Timer interface {
	ObserveDuration()
}

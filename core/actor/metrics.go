package actor

import "github.com/codewandler/actr-go/core/metrics"

// ActorMetrics instruments the actor runtime. Implementations must be safe
// for concurrent use; see adapters/prometheus for a Prometheus backend.
type ActorMetrics interface {
	// Invocations, labelled by selector. Covers both the synchronous path
	// and mailbox deliveries.
	MessageDuration(selector string) metrics.Timer
	MessageProcessed(selector string, success bool)
	MessagePanic(selector string)

	MailboxDepth(actorID string, depth int)

	SchedulerInflight(actorID string, count int)
	SchedulerTaskDuration() metrics.Timer
	SchedulerTaskCompleted(success bool)
}

type nopActorMetrics struct{}

func (nopActorMetrics) MessageDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) MessageProcessed(string, bool)        {}
func (nopActorMetrics) MessagePanic(string)                  {}
func (nopActorMetrics) MailboxDepth(string, int)             {}
func (nopActorMetrics) SchedulerInflight(string, int)        {}
func (nopActorMetrics) SchedulerTaskDuration() metrics.Timer { return metrics.NopTimer() }
func (nopActorMetrics) SchedulerTaskCompleted(bool)          {}

// NopActorMetrics returns an ActorMetrics that records nothing.
func NopActorMetrics() ActorMetrics { return nopActorMetrics{} }

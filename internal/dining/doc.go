// Package dining is the dining philosophers problem built on the actor
// runtime, plus the classic lock-based solution for comparison.
//
// Philosophers and the waiter are actors. A philosopher thinks, asks the
// waiter to eat, eats when told to, and reports back when done; every step
// is a message, so no philosopher or waiter state is ever shared. The waiter
// admits at most Capacity philosophers at a time, which keeps the ring of
// chopsticks free of deadlock.
package dining

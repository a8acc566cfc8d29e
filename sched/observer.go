package sched

import "reflect"

// EventType identifies a coroutine lifecycle transition.
type EventType uint8

const (
	EventCreated EventType = iota
	EventResumed
	EventYielded
	EventFinished
	EventDiscarded
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventResumed:
		return "resumed"
	case EventYielded:
		return "yielded"
	case EventFinished:
		return "finished"
	case EventDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Event represents a coroutine lifecycle event.
type Event struct {
	ID   int
	Type EventType
}

// Observer receives notifications about coroutine lifecycle events.
// Observers run synchronously on whichever flow caused the transition:
// the driver for Created/Resumed/Discarded, the coroutine for
// Yielded/Finished. They must not call back into the scheduler.
type Observer interface {
	OnCoroutineEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnCoroutineEvent(e Event) { f(e) }

// Subscribe adds an observer for lifecycle events.
func (s *Scheduler) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer. Observers of non-comparable types, such
// as ObserverFunc, cannot be removed and are ignored.
func (s *Scheduler) Unsubscribe(o Observer) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return
	}
	for i, obs := range s.observers {
		if reflect.TypeOf(obs) == reflect.TypeOf(o) && obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) notify(id int, typ EventType) {
	e := Event{ID: id, Type: typ}
	for _, o := range s.observers {
		o.OnCoroutineEvent(e)
	}
}

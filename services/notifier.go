package services

import "log"

// Notifier receives an event after the state change committed. Delivery is
// fire-and-forget: a failed notification never rolls the transition back.
type Notifier interface {
	Notify(event string, payload any)
}

// LogNotifier is the default sink; real email/SMS lives behind the same
// interface outside this core.
type LogNotifier struct{}

func (LogNotifier) Notify(event string, payload any) {
	log.Printf("notify %s: %+v", event, payload)
}

// MultiNotifier fans one event out to several sinks (log + websocket hub).
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(event string, payload any) {
	for _, n := range m {
		n.Notify(event, payload)
	}
}

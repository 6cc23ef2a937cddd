package scene

import "time"

// Kind names a class of broadcast event. Applications declare their kinds as
// package-level constants; dispatch matches kinds by equality only, payloads
// do not exist. State a handler needs is read from services resolved against
// the handling node.
type Kind string

// Updater is implemented by services that run during the per-frame update
// phase. dt is the elapsed time since the previous frame.
type Updater interface {
	Update(dt time.Duration)
}

// FixedUpdater is implemented by services that run during fixed-step passes.
// dt is always exactly the configured fixed step.
type FixedUpdater interface {
	FixedUpdate(dt time.Duration)
}

// LateUpdater is implemented by services that run after every Updater of the
// frame has finished.
type LateUpdater interface {
	LateUpdate(dt time.Duration)
}

// EventHandler is implemented by services that react to broadcast events.
// The returned slice is snapshotted once when the service is installed;
// its order is the dispatch order among the service's own handlers.
type EventHandler interface {
	EventHandlers() []Handler
}

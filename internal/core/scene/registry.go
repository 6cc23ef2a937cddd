package scene

import "reflect"

// registry holds one node's installed services in installation order plus
// the capability lists derived from them. Capability membership is decided
// by type assertion once at install, never re-queried per frame or per
// dispatch.
type registry struct {
	services []any
	updaters []Updater
	fixed    []FixedUpdater
	late     []LateUpdater
	handlers map[Kind][]Handler
}

func newRegistry() *registry {
	return &registry{
		handlers: make(map[Kind][]Handler),
	}
}

// add appends a service and files it under every capability it implements.
// Within a kind, handler order is service installation order, then the
// service's own declaration order.
func (r *registry) add(svc any) {
	r.services = append(r.services, svc)
	if u, ok := svc.(Updater); ok {
		r.updaters = append(r.updaters, u)
	}
	if f, ok := svc.(FixedUpdater); ok {
		r.fixed = append(r.fixed, f)
	}
	if l, ok := svc.(LateUpdater); ok {
		r.late = append(r.late, l)
	}
	if eh, ok := svc.(EventHandler); ok {
		for _, h := range eh.EventHandlers() {
			r.handlers[h.kind] = append(r.handlers[h.kind], h)
		}
	}
}

// lookup returns the first service assignable to target, in installation
// order. Assignability covers exact types, pointer types and interface
// satisfaction.
func (r *registry) lookup(target reflect.Type) (any, bool) {
	for _, svc := range r.services {
		if reflect.TypeOf(svc).AssignableTo(target) {
			return svc, true
		}
	}
	return nil, false
}

func (r *registry) len() int { return len(r.services) }

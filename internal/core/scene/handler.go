package scene

import (
	"reflect"
	"strings"
)

// Handler binds an event kind to a service callback. Callback arguments are
// not captured up front: each one is resolved with a scoped lookup against
// the handling node at dispatch time, so two nodes running the same handler
// can see different services.
type Handler struct {
	kind   Kind
	params []reflect.Type
	invoke func(owner *Node) error
}

// Kind returns the event kind this handler fires on.
func (h Handler) Kind() Kind { return h.kind }

// Signature renders the handler as kind(paramTypes...) for diagnostics.
func (h Handler) Signature() string {
	if len(h.params) == 0 {
		return string(h.kind) + "()"
	}
	names := make([]string, len(h.params))
	for i, p := range h.params {
		names[i] = p.String()
	}
	return string(h.kind) + "(" + strings.Join(names, ", ") + ")"
}

// On binds a kind to a callback with no injected arguments.
func On(kind Kind, fn func() error) Handler {
	return Handler{
		kind:   kind,
		invoke: func(*Node) error { return fn() },
	}
}

// On1 binds a kind to a callback whose argument is resolved against the
// handling node when the event fires. A failed resolution aborts the
// dispatch cascade.
func On1[A any](kind Kind, fn func(A) error) Handler {
	return Handler{
		kind:   kind,
		params: []reflect.Type{typeFor[A]()},
		invoke: func(owner *Node) error {
			a, err := FindService[A](owner)
			if err != nil {
				return err
			}
			return fn(a)
		},
	}
}

// On2 is On1 for two injected arguments, resolved in declaration order.
func On2[A, B any](kind Kind, fn func(A, B) error) Handler {
	return Handler{
		kind:   kind,
		params: []reflect.Type{typeFor[A](), typeFor[B]()},
		invoke: func(owner *Node) error {
			a, err := FindService[A](owner)
			if err != nil {
				return err
			}
			b, err := FindService[B](owner)
			if err != nil {
				return err
			}
			return fn(a, b)
		},
	}
}

// On3 is On1 for three injected arguments.
func On3[A, B, C any](kind Kind, fn func(A, B, C) error) Handler {
	return Handler{
		kind:   kind,
		params: []reflect.Type{typeFor[A](), typeFor[B](), typeFor[C]()},
		invoke: func(owner *Node) error {
			a, err := FindService[A](owner)
			if err != nil {
				return err
			}
			b, err := FindService[B](owner)
			if err != nil {
				return err
			}
			c, err := FindService[C](owner)
			if err != nil {
				return err
			}
			return fn(a, b, c)
		},
	}
}

// On4 is On1 for four injected arguments.
func On4[A, B, C, D any](kind Kind, fn func(A, B, C, D) error) Handler {
	return Handler{
		kind:   kind,
		params: []reflect.Type{typeFor[A](), typeFor[B](), typeFor[C](), typeFor[D]()},
		invoke: func(owner *Node) error {
			a, err := FindService[A](owner)
			if err != nil {
				return err
			}
			b, err := FindService[B](owner)
			if err != nil {
				return err
			}
			c, err := FindService[C](owner)
			if err != nil {
				return err
			}
			d, err := FindService[D](owner)
			if err != nil {
				return err
			}
			return fn(a, b, c, d)
		},
	}
}

// typeFor resolves the reflect.Type of T, including interface types.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

package scene

import (
	"fmt"
	"reflect"
)

// FindService resolves a dependency by scope: the starting node's own
// services are scanned first in installation order, then each ancestor's in
// turn. Descendants are never searched, so a service installed on a child is
// invisible to its parent. T may be a concrete type or an interface.
func FindService[T any](n *Node) (T, error) {
	for cur := n; cur != nil; cur = cur.parent {
		for _, svc := range cur.reg.services {
			if t, ok := svc.(T); ok {
				return t, nil
			}
		}
	}
	var zero T
	return zero, fmt.Errorf("node %s: lookup %s: %w", n.Path(), typeFor[T](), ErrServiceNotFound)
}

// MustService is FindService for wiring code where a missing dependency is a
// programming error. It panics instead of returning one.
func MustService[T any](n *Node) T {
	t, err := FindService[T](n)
	if err != nil {
		panic(err)
	}
	return t
}

// FindByType is the reflect form of FindService for callers that only hold a
// reflect.Type.
func (n *Node) FindByType(target reflect.Type) (any, error) {
	for cur := n; cur != nil; cur = cur.parent {
		if svc, ok := cur.reg.lookup(target); ok {
			return svc, nil
		}
	}
	return nil, fmt.Errorf("node %s: lookup %s: %w", n.Path(), target, ErrServiceNotFound)
}

// ChildWith returns the first direct child owning a service of type T,
// together with that service. Children are scanned in list order and only
// their own registries are consulted.
func ChildWith[T any](n *Node) (*Node, T, error) {
	return ChildWithFunc[T](n, nil)
}

// ChildWithFunc is ChildWith with a predicate. A child's first service of
// type T is the candidate; pred returning false moves on to the next child.
func ChildWithFunc[T any](n *Node, pred func(*Node, T) bool) (*Node, T, error) {
	for _, c := range n.children {
		for _, svc := range c.reg.services {
			if t, ok := svc.(T); ok {
				if pred == nil || pred(c, t) {
					return c, t, nil
				}
				break
			}
		}
	}
	var zero T
	return nil, zero, fmt.Errorf("node %s: no child with %s: %w", n.Path(), typeFor[T](), ErrChildNotFound)
}

// EachChildWith visits every direct child owning a service of type T.
func EachChildWith[T any](n *Node, fn func(*Node, T)) {
	for _, c := range n.children {
		for _, svc := range c.reg.services {
			if t, ok := svc.(T); ok {
				fn(c, t)
				break
			}
		}
	}
}

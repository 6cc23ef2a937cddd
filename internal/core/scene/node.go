// Package scene implements a tree of nodes owning opaque services, with
// scoped dependency lookup, broadcast event dispatch and a three-phase frame
// schedule. The whole tree is owned by a single goroutine; no locks, no
// atomics. The async wrappers hand the same synchronous algorithms to a
// worker goroutine and report completion on a channel.
package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// Node is one element of the tree. It owns its services and its children;
// the parent link is a plain back-reference and confers no ownership.
type Node struct {
	name      string
	parent    *Node
	children  []*Node
	reg       *registry
	installed bool

	log        *zap.Logger
	providers  []func(*Node) []any
	constructs []func(*Node) error
}

// Option configures a node at construction.
type Option func(*Node)

// WithLogger sets the node's diagnostic logger. Nodes without one inherit
// the nearest ancestor's logger at use time.
func WithLogger(log *zap.Logger) Option {
	return func(n *Node) { n.log = log }
}

// WithServices queues ready-made services. They are filed into the registry
// when the node installs, in the order given, before any WithProvider yield
// declared later.
func WithServices(svcs ...any) Option {
	return func(n *Node) {
		n.providers = append(n.providers, func(*Node) []any { return svcs })
	}
}

// WithProvider queues a deferred service yield, run at install time with the
// node being installed. Use it when a service needs the node itself, for
// example to dispatch events or adopt children later.
func WithProvider(provide func(*Node) []any) Option {
	return func(n *Node) { n.providers = append(n.providers, provide) }
}

// WithConstruct queues a hook that runs after the node's services are filed,
// while children are still uninstalled. This is the place to resolve
// dependencies and wire services together; an error aborts the install.
func WithConstruct(construct func(*Node) error) Option {
	return func(n *Node) { n.constructs = append(n.constructs, construct) }
}

// WithChildren attaches child nodes up front. Panics if a child is already
// attached elsewhere; that is a construction bug, not a runtime condition.
func WithChildren(children ...*Node) Option {
	return func(n *Node) {
		for _, c := range children {
			if c.parent != nil {
				panic(fmt.Sprintf("scene: child %q already attached to %q", c.name, c.parent.name))
			}
			c.parent = n
			n.children = append(n.children, c)
		}
	}
}

// New creates a detached, uninstalled node.
func New(name string, opts ...Option) *Node {
	n := &Node{
		name: name,
		reg:  newRegistry(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) Name() string    { return n.name }
func (n *Node) Parent() *Node   { return n.parent }
func (n *Node) Installed() bool { return n.installed }

// Children returns a copy of the child list in order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Services returns the number of services installed on this node.
func (n *Node) Services() int { return n.reg.len() }

// Path renders the slash-joined names from the root down to this node.
func (n *Node) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "/" + n.name
}

// logger walks up the tree for the nearest configured logger.
func (n *Node) logger() *zap.Logger {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.log != nil {
			return cur.log
		}
	}
	return zap.NewNop()
}

// Install brings the node and its subtree live: the installed flag is raised
// first so lookups made by the node's own hooks already see it, then
// providers yield services into the registry, then construct hooks run, then
// children install in list order. A hook or child failure propagates
// immediately and leaves everything already done in place; there is no
// rollback. Installing twice is a warning no-op.
func (n *Node) Install() error {
	if n.installed {
		n.logger().Warn("install skipped, node already installed",
			zap.String("node", n.Path()))
		return nil
	}
	n.installed = true

	for _, provide := range n.providers {
		for _, svc := range provide(n) {
			if svc == nil {
				n.logger().Warn("provider yielded nil service",
					zap.String("node", n.Path()))
				continue
			}
			n.reg.add(svc)
		}
	}
	for _, construct := range n.constructs {
		if err := construct(n); err != nil {
			return fmt.Errorf("install %s: %w", n.Path(), err)
		}
	}
	for _, child := range n.children {
		if err := child.Install(); err != nil {
			return err
		}
	}
	return nil
}

// AddNode attaches child as the last child. When n is already installed the
// child's subtree installs immediately; otherwise it waits for n's own
// Install so a child never goes live before its parent has finished.
func (n *Node) AddNode(child *Node) error {
	if child == nil {
		return fmt.Errorf("add node to %s: nil child", n.Path())
	}
	if child == n {
		return fmt.Errorf("add node to %s: node cannot adopt itself", n.Path())
	}
	if child.parent != nil {
		return fmt.Errorf("add node %q to %s: already attached to %s",
			child.name, n.Path(), child.parent.Path())
	}
	for anc := n; anc != nil; anc = anc.parent {
		if anc == child {
			return fmt.Errorf("add node %q to %s: would create a cycle",
				child.name, n.Path())
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	if n.installed {
		return child.Install()
	}
	return nil
}

// RemoveNode detaches child from the tree. Services are not torn down and
// the subtree stays installed; it merely stops being reachable from here.
// Returns false when child is not a direct child.
func (n *Node) RemoveNode(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Child returns the direct child with the given name.
func (n *Node) Child(name string) (*Node, error) {
	for _, c := range n.children {
		if c.name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("node %s: child %q: %w", n.Path(), name, ErrChildNotFound)
}

// Walk visits n and its descendants depth-first, children in list order.
// Returning false prunes that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

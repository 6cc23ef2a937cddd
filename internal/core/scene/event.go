package scene

import (
	"fmt"

	"go.uber.org/zap"
)

// Call broadcasts an event down the subtree rooted at n. The node's own
// handlers for the kind run first in registration order, then each child's
// subtree in list order, parents always before descendants. Handler
// arguments are resolved against the handling node when the handler fires,
// so siblings with different local services see their own.
//
// The first failure, whether a handler error or an unresolvable argument, aborts
// the remainder of the cascade and propagates. A kind nobody handles is a
// plain no-op. Calling on an uninstalled node warns and does nothing.
func (n *Node) Call(kind Kind) error {
	if !n.installed {
		n.logger().Warn("event dropped, node not installed",
			zap.String("node", n.Path()),
			zap.String("kind", string(kind)))
		return nil
	}
	for _, h := range n.reg.handlers[kind] {
		if err := h.invoke(n); err != nil {
			return fmt.Errorf("%s: handler %s: %w", n.Path(), h.Signature(), err)
		}
	}
	for _, child := range n.children {
		if err := child.Call(kind); err != nil {
			return err
		}
	}
	return nil
}

package scene

import (
	"time"

	"go.uber.org/zap"
)

// The schedule entry points run this node's subscribed services only; they
// never recurse. The frame driver enumerates live nodes with Walk and calls
// each phase itself, which keeps phase ordering a driver concern. Services
// run in installation order. On an uninstalled node each entry point warns
// and does nothing.

// Update runs the node's per-frame services with the elapsed frame time.
func (n *Node) Update(dt time.Duration) {
	if !n.warnUninstalled("update") {
		return
	}
	for _, u := range n.reg.updaters {
		u.Update(dt)
	}
}

// FixedUpdate runs the node's fixed-step services. dt is the fixed step.
func (n *Node) FixedUpdate(dt time.Duration) {
	if !n.warnUninstalled("fixed update") {
		return
	}
	for _, f := range n.reg.fixed {
		f.FixedUpdate(dt)
	}
}

// LateUpdate runs the node's post-update services.
func (n *Node) LateUpdate(dt time.Duration) {
	if !n.warnUninstalled("late update") {
		return
	}
	for _, l := range n.reg.late {
		l.LateUpdate(dt)
	}
}

func (n *Node) warnUninstalled(phase string) bool {
	if n.installed {
		return true
	}
	n.logger().Warn("phase skipped, node not installed",
		zap.String("node", n.Path()),
		zap.String("phase", phase))
	return false
}

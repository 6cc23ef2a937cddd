package scene

// The async wrappers submit the unchanged synchronous algorithms to a fresh
// goroutine and deliver the single result on a buffered channel, so the
// caller never blocks on the send. They add no locking: until the channel
// delivers, the subtree belongs to the worker and the caller must not touch
// it or any overlapping tree.

// InstallAsync runs Install on a worker goroutine.
func (n *Node) InstallAsync() <-chan error {
	done := make(chan error, 1)
	go func() { done <- n.Install() }()
	return done
}

// CallAsync runs Call on a worker goroutine.
func (n *Node) CallAsync(kind Kind) <-chan error {
	done := make(chan error, 1)
	go func() { done <- n.Call(kind) }()
	return done
}

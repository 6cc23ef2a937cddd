package world

import "github.com/arborlabs/arbor/internal/core/scene"

// Event kinds broadcast through the world tree.
const (
	// KindWorldStart fires once on the root after the tree is installed.
	KindWorldStart scene.Kind = "world.start"

	// KindDawn and KindDusk fire on the root at each day-phase flip.
	KindDawn scene.Kind = "world.dawn"
	KindDusk scene.Kind = "world.dusk"

	// KindActorSpawned fires on a freshly spawned actor subtree.
	KindActorSpawned scene.Kind = "actor.spawned"

	// KindActorSlain fires on a zone subtree after an actor was reaped.
	KindActorSlain scene.Kind = "actor.slain"
)

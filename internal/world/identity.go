package world

import "fmt"

// Identity pins an actor to the template it was spawned from.
type Identity struct {
	TemplateID int32
	Name       string
	Archetype  string
	Zone       string
}

func (id *Identity) String() string {
	return fmt.Sprintf("%s (%s #%d)", id.Name, id.Archetype, id.TemplateID)
}

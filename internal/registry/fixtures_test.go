package registry_test

import "github.com/specialistvlad/aero/internal/registry"

type Touchable interface {
	Touch() string
}

type Sayable interface {
	Say() string
}

type Fruit struct{ registry.Base }

func (*Fruit) Touch() string { return "Fruit" }

type Apple struct{ Fruit }

func (*Apple) Touch() string { return "Apple" }

type Pet struct{ registry.Base }

func (*Pet) Touch() string { return "Pet" }

type Cat struct{ Pet }

func (*Cat) Touch() string { return "Cat" }
func (*Cat) Say() string   { return "Meow" }

type Parrot struct {
	Pet
	word string
}

func (*Parrot) Touch() string { return "Parrot" }
func (p *Parrot) Say() string { return p.word }

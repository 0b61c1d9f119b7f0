// Command pets is a sample plugin library. Build it with
//
//	go build -buildmode=plugin -o pets.so ./modules/pets
//
// and list it in a manifest; loading it registers "pet", "cat" and
// "hello_parrot" in the host's process-wide registry. The host and the
// plugin must be built from the same module version, as Go plugins require.
package main

import "github.com/specialistvlad/aero/internal/registry"

// Touchable is implemented by every plugin in this library.
type Touchable interface {
	Touch() string
}

// Sayable is implemented only by the pets that talk.
type Sayable interface {
	Say() string
}

type Pet struct{ registry.Base }

func (*Pet) Touch() string    { return "Pet" }
func (*Pet) Describe() string { return "a quiet pet" }

type Cat struct{ Pet }

func (*Cat) Touch() string    { return "Cat" }
func (*Cat) Say() string      { return "Meow" }
func (*Cat) Describe() string { return "says Meow" }

type Parrot struct {
	Pet
	word string
}

func (*Parrot) Touch() string      { return "Parrot" }
func (p *Parrot) Say() string      { return p.word }
func (p *Parrot) Describe() string { return "says " + p.word }

var (
	_ = registry.Declare("pet", func() registry.Plugin { return &Pet{} })
	_ = registry.Declare("cat", func() registry.Plugin { return &Cat{} })
	_ = registry.Declare("hello_parrot", func() registry.Plugin { return &Parrot{word: "Hello"} })
)

// main is never called when built as a plugin.
func main() {}

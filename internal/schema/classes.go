package schema

import (
	"sync"

	"github.com/ryanadelino-stack/compiler-api/internal/serial"
)

// Class names of the save format.
const (
	TeamClass   = "e.t"
	PlayerClass = "e.g"
)

// Known stream identifiers. The team class identifier has never been
// observed in a published save and is configurable.
const (
	DefaultTeamSUID int64 = 1
	PlayerSUID      int64 = 16
	ArrayListSUID   int64 = 8683452581122892189
	ColorSUID       int64 = 118526816881161077
)

// TeamDesc returns the built-in team descriptor.
func TeamDesc(suid int64) *serial.ClassDesc {
	return &serial.ClassDesc{
		Name:  TeamClass,
		SUID:  suid,
		Flags: serial.ScSerializable,
		Fields: []serial.Field{
			{Type: 'I', Name: "aid"},
			{Type: 'I', Name: "id"},
			{Type: 'Z', Name: "mark"},
			{Type: 'Z', Name: "valid"},
			{Type: 'I', Name: "vid"},
			{Type: 'L', Name: "cor1", ClassName: "Ljava/awt/Color;"},
			{Type: 'L', Name: "cor2", ClassName: "Ljava/awt/Color;"},
			{Type: 'L', Name: "l", ClassName: "Ljava/util/ArrayList;"},
			{Type: 'L', Name: "m", ClassName: "Ljava/util/ArrayList;"},
			{Type: 'L', Name: "nome", ClassName: serial.StringSig},
		},
	}
}

// PlayerDesc returns the built-in player descriptor.
func PlayerDesc() *serial.ClassDesc {
	return &serial.ClassDesc{
		Name:  PlayerClass,
		SUID:  PlayerSUID,
		Flags: serial.ScSerializable,
		Fields: []serial.Field{
			{Type: 'I', Name: "aid"},
			{Type: 'Z', Name: "b"},
			{Type: 'I', Name: "c"},
			{Type: 'I', Name: "d"},
			{Type: 'I', Name: "e"},
			{Type: 'I', Name: "f"},
			{Type: 'I', Name: "g"},
			{Type: 'I', Name: "h"},
			{Type: 'I', Name: "hash"},
			{Type: 'I', Name: "i"},
			{Type: 'Z', Name: "j"},
			{Type: 'I', Name: "sid"},
			{Type: 'I', Name: "tid"},
			{Type: 'L', Name: "a", ClassName: serial.StringSig},
		},
	}
}

// ArrayListDesc returns the java.util.ArrayList descriptor.
func ArrayListDesc() *serial.ClassDesc {
	return &serial.ClassDesc{
		Name:   serial.ArrayListClass,
		SUID:   ArrayListSUID,
		Flags:  serial.ScWriteMethod | serial.ScSerializable,
		Fields: []serial.Field{{Type: 'I', Name: "size"}},
	}
}

// ColorDesc returns the java.awt.Color descriptor.
func ColorDesc() *serial.ClassDesc {
	return &serial.ClassDesc{
		Name:  serial.ColorClass,
		SUID:  ColorSUID,
		Flags: serial.ScSerializable,
		Fields: []serial.Field{
			{Type: 'F', Name: "falpha"},
			{Type: 'I', Name: "value"},
			{Type: 'L', Name: "cs", ClassName: "Ljava/awt/color/ColorSpace;"},
			{Type: '[', Name: "frgbvalue", ClassName: "[F"},
			{Type: '[', Name: "fvalue", ClassName: "[F"},
		},
	}
}

// Catalog resolves class descriptors by name. Descriptors harvested from a
// loaded template win over the built-ins so written objects match the
// template's classes exactly. A Catalog belongs to one compile.
type Catalog struct {
	mu     sync.Mutex
	byName map[string]*serial.ClassDesc
}

// NewCatalog creates a catalog seeded with the built-in descriptors.
func NewCatalog(teamSUID int64) *Catalog {
	c := &Catalog{byName: make(map[string]*serial.ClassDesc)}
	for _, d := range []*serial.ClassDesc{TeamDesc(teamSUID), PlayerDesc(), ArrayListDesc(), ColorDesc()} {
		c.byName[d.Name] = d
	}
	return c
}

// Lookup returns the descriptor for name.
func (c *Catalog) Lookup(name string) (*serial.ClassDesc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.byName[name]
	return d, ok
}

// Team, Player, ArrayList and Color return the resolved descriptors.
func (c *Catalog) Team() *serial.ClassDesc      { return c.must(TeamClass) }
func (c *Catalog) Player() *serial.ClassDesc    { return c.must(PlayerClass) }
func (c *Catalog) ArrayList() *serial.ClassDesc { return c.must(serial.ArrayListClass) }
func (c *Catalog) Color() *serial.ClassDesc     { return c.must(serial.ColorClass) }

func (c *Catalog) must(name string) *serial.ClassDesc {
	d, _ := c.Lookup(name)
	return d
}

// Harvest walks a decoded graph and registers every descriptor it finds.
func (c *Catalog) Harvest(root any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[any]bool)
	var visit func(v any)
	addDesc := func(d *serial.ClassDesc) {
		for cur := d; cur != nil; cur = cur.Super {
			if seen[cur] {
				return
			}
			seen[cur] = true
			c.byName[cur.Name] = cur
		}
	}
	visit = func(v any) {
		switch x := v.(type) {
		case *serial.Object:
			if x == nil || seen[x] {
				return
			}
			seen[x] = true
			addDesc(x.Class)
			for _, cd := range x.Data {
				for _, val := range cd.Values {
					visit(val)
				}
				for _, a := range cd.Annotations {
					visit(a)
				}
			}
		case *serial.Array:
			if x == nil || seen[x] {
				return
			}
			seen[x] = true
			addDesc(x.Class)
			for _, e := range x.Elems {
				visit(e)
			}
		case *serial.Enum:
			if x != nil {
				addDesc(x.Class)
			}
		case *serial.Class:
			if x != nil {
				addDesc(x.Desc)
			}
		}
	}
	visit(root)
}

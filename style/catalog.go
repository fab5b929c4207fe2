package style

// Catalog holds the drum and bass rule tables. It is built once and only read afterwards.
type Catalog struct {
	drums  [numIDs]Spec
	basses [numBassIDs]BassSpec
}

// NewCatalog builds the built-in rule tables
func NewCatalog() *Catalog {
	c := &Catalog{basses: bassTable()}
	c.drums[HipHop] = makeHipHop()
	c.drums[Trap] = makeTrap()
	c.drums[Drill] = makeDrill()
	c.drums[EDM] = makeEDM()
	c.drums[Reggaeton] = makeReggaeton()
	c.drums[RnB] = makeRnB()
	c.drums[Pop] = makePop()
	c.drums[Rock] = makeRock()
	c.drums[Wxstie] = makeWxstie()
	return c
}

// Spec returns the drum spec for id, or the default for an out-of-range id
func (c *Catalog) Spec(id ID) Spec {
	if id < 0 || id >= numIDs {
		id = DefaultID
	}
	return c.drums[id]
}

// Get looks up a drum spec by name, falling back to the default style
func (c *Catalog) Get(name string) Spec {
	id, ok := ParseID(name)
	if !ok {
		id = DefaultID
	}
	return c.Spec(id)
}

// Drums lists every drum spec in catalogue order
func (c *Catalog) Drums() []Spec {
	return append([]Spec(nil), c.drums[:]...)
}

// Bass returns the bass spec for id, or the default for an out-of-range id
func (c *Catalog) Bass(id BassID) BassSpec {
	if id < 0 || id >= numBassIDs {
		id = DefaultBassID
	}
	return c.basses[id]
}

// GetBass looks up a bass spec by name, falling back to the default style
func (c *Catalog) GetBass(name string) BassSpec {
	id, ok := ParseBassID(name)
	if !ok {
		id = DefaultBassID
	}
	return c.Bass(id)
}

// Basses lists every bass spec in catalogue order
func (c *Catalog) Basses() []BassSpec {
	return append([]BassSpec(nil), c.basses[:]...)
}

var builtin = NewCatalog()

// Builtin returns the shared built-in catalog
func Builtin() *Catalog {
	return builtin
}

// Get returns a drum spec from the built-in catalog
func Get(name string) Spec {
	return builtin.Get(name)
}

// GetBass returns a bass spec from the built-in catalog
func GetBass(name string) BassSpec {
	return builtin.GetBass(name)
}

// Default returns the default drum spec
func Default() Spec {
	return builtin.Spec(DefaultID)
}

// DefaultBass returns the default bass spec
func DefaultBass() BassSpec {
	return builtin.Bass(DefaultBassID)
}

// Names lists drum style names for selection UIs
func Names() []string {
	out := make([]string, 0, numIDs)
	for id := ID(0); id < numIDs; id++ {
		out = append(out, id.String())
	}
	return out
}

// BassNames lists bass style names for selection UIs
func BassNames() []string {
	out := make([]string, 0, numBassIDs)
	for id := BassID(0); id < numBassIDs; id++ {
		out = append(out, id.String())
	}
	return out
}

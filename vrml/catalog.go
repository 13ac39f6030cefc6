package vrml

import "fmt"

// Catalog indexes node kinds by tag and by name.
type Catalog struct {
	byTag  map[Tag]*Kind
	byName map[string]*Kind
}

// NewCatalog returns a catalog holding kinds. Later kinds replace earlier
// ones with the same tag or name.
func NewCatalog(kinds ...*Kind) *Catalog {
	c := &Catalog{
		byTag:  make(map[Tag]*Kind, len(kinds)),
		byName: make(map[string]*Kind, len(kinds)),
	}
	for _, k := range kinds {
		c.Add(k)
	}
	return c
}

// Add registers k.
func (c *Catalog) Add(k *Kind) {
	c.byTag[k.Tag] = k
	c.byName[k.Name] = k
}

// Lookup returns the kind registered for tag.
func (c *Catalog) Lookup(tag Tag) (*Kind, bool) {
	k, ok := c.byTag[tag]
	return k, ok
}

// ByName returns the kind called name.
func (c *Catalog) ByName(name string) (*Kind, bool) {
	k, ok := c.byName[name]
	return k, ok
}

// New returns a default-valued node of the kind called name.
func (c *Catalog) New(name string) (*Generic, error) {
	k, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("vrml: unknown node kind %q", name)
	}
	return New(k), nil
}

// Len returns the number of registered kinds.
func (c *Catalog) Len() int {
	return len(c.byTag)
}

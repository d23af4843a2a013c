package scale

import "fmt"

// Catalog is a closed, read-only registry of scales.
type Catalog struct {
	order []string
	byID  map[string]Scale
}

// NewCatalog validates every scale and returns a catalog preserving the given order.
func NewCatalog(scales ...Scale) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Scale, len(scales))}
	for _, s := range scales {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate scale id %q", s.ID)
		}
		c.byID[s.ID] = s
		c.order = append(c.order, s.ID)
	}
	return c, nil
}

// ListScales returns the scales in display order.
func (c *Catalog) ListScales() []Scale {
	out := make([]Scale, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// GetScale looks up a scale by id.
func (c *Catalog) GetScale(id string) (Scale, error) {
	s, ok := c.byID[id]
	if !ok {
		return Scale{}, &UnknownScaleError{ID: id}
	}
	return s, nil
}

// IDs returns the registered ids in display order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

var defaultCatalog = mustCatalog(builtinScales()...)

// Default returns the catalog of built-in scales.
func Default() *Catalog {
	return defaultCatalog
}

// ListScales returns the built-in scales in display order.
func ListScales() []Scale {
	return defaultCatalog.ListScales()
}

// GetScale looks up a built-in scale by id.
func GetScale(id string) (Scale, error) {
	return defaultCatalog.GetScale(id)
}

func mustCatalog(scales ...Scale) *Catalog {
	c, err := NewCatalog(scales...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in scale catalog: %v", err))
	}
	return c
}

func builtinScales() []Scale {
	return []Scale{
		New(DefaultID, "4.0 Scale (A+ = 4.0)", 4.0,
			Grade{"A+", 4.0}, Grade{"A", 4.0}, Grade{"A-", 3.7},
			Grade{"B+", 3.3}, Grade{"B", 3.0}, Grade{"B-", 2.7},
			Grade{"C+", 2.3}, Grade{"C", 2.0}, Grade{"C-", 1.7},
			Grade{"D+", 1.3}, Grade{"D", 1.0}, Grade{"F", 0.0},
		),
		New("4.3-scale", "4.3 Scale (A+ = 4.3)", 4.3,
			Grade{"A+", 4.3}, Grade{"A", 4.0}, Grade{"A-", 3.7},
			Grade{"B+", 3.3}, Grade{"B", 3.0}, Grade{"B-", 2.7},
			Grade{"C+", 2.3}, Grade{"C", 2.0}, Grade{"C-", 1.7},
			Grade{"D+", 1.3}, Grade{"D", 1.0}, Grade{"F", 0.0},
		),
		New("no-plus", "4.0 Scale (No A+)", 4.0,
			Grade{"A", 4.0}, Grade{"A-", 3.7},
			Grade{"B+", 3.3}, Grade{"B", 3.0}, Grade{"B-", 2.7},
			Grade{"C+", 2.3}, Grade{"C", 2.0}, Grade{"C-", 1.7},
			Grade{"D+", 1.3}, Grade{"D", 1.0}, Grade{"F", 0.0},
		),
		New("5.0", "5.0 Scale", 5.0,
			Grade{"A+", 5.0}, Grade{"A", 4.5}, Grade{"A-", 4.0},
			Grade{"B+", 3.5}, Grade{"B", 3.0}, Grade{"B-", 2.5},
			Grade{"C+", 2.0}, Grade{"C", 1.5}, Grade{"C-", 1.0},
			Grade{"D", 0.5}, Grade{"F", 0.0},
		),
		New("10.0", "10.0 Scale", 10.0,
			Grade{"A+", 10.0}, Grade{"A", 9.0}, Grade{"A-", 8.0},
			Grade{"B+", 7.0}, Grade{"B", 6.0}, Grade{"B-", 5.0},
			Grade{"C+", 4.0}, Grade{"C", 3.0}, Grade{"C-", 2.0},
			Grade{"D", 1.0}, Grade{"F", 0.0},
		),
	}
}

package preference

import "fmt"

// Alternative is one of the options being compared. Values holds the
// alternative's domain element for each primitive objective.
type Alternative struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Values      map[string]Element `json:"values"`
}

func (a Alternative) Clone() Alternative {
	c := a
	c.Values = make(map[string]Element, len(a.Values))
	for k, v := range a.Values {
		c.Values[k] = v
	}
	return c
}

func (a Alternative) Equal(o Alternative) bool {
	if a.Name != o.Name || a.Description != o.Description || len(a.Values) != len(o.Values) {
		return false
	}
	for k, v := range a.Values {
		if ov, ok := o.Values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Chart is the structure every user of a decision shares: the objective
// hierarchy and the alternatives.
type Chart struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Creator      string        `json:"creator,omitempty"`
	Root         *Objective    `json:"root"`
	Alternatives []Alternative `json:"alternatives"`
}

// Validate checks the hierarchy and that every alternative value lies in
// its objective's domain.
func (c *Chart) Validate() error {
	if c.Root == nil {
		return fmt.Errorf("%w: chart has no root objective", ErrInvalidObjective)
	}
	if err := c.Root.Validate(); err != nil {
		return err
	}
	names := make(map[string]struct{}, len(c.Alternatives))
	for _, a := range c.Alternatives {
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("duplicate alternative %q", a.Name)
		}
		names[a.Name] = struct{}{}
		for id, v := range a.Values {
			obj := c.Root.Find(id)
			if obj == nil {
				return fmt.Errorf("alternative %q: %w: %s", a.Name, ErrObjectiveNotFound, id)
			}
			if !obj.IsPrimitive() {
				return fmt.Errorf("alternative %q: %w: %s", a.Name, ErrNotPrimitive, id)
			}
			if !obj.Domain.Contains(v) {
				return fmt.Errorf("alternative %q: value %s outside domain of %s", a.Name, v, id)
			}
		}
	}
	return nil
}

// AlternativeIndex returns the position of the named alternative, or -1.
func (c *Chart) AlternativeIndex(name string) int {
	for i, a := range c.Alternatives {
		if a.Name == name {
			return i
		}
	}
	return -1
}

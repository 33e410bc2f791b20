package preference

import (
	"encoding/json"
	"fmt"
)

// ObjectiveKind tags the two Objective variants.
type ObjectiveKind string

const (
	ObjectiveAbstract  ObjectiveKind = "abstract"
	ObjectivePrimitive ObjectiveKind = "primitive"
)

// Objective is a node of the decision hierarchy. Abstract objectives own
// an ordered child list; primitive objectives carry a domain, a default
// score function and a display color.
type Objective struct {
	Kind        ObjectiveKind
	ID          string
	Name        string
	Description string

	Children []*Objective

	Domain               Domain
	DefaultScoreFunction ScoreFunction
	Color                string
}

func NewAbstractObjective(id, name string, children ...*Objective) *Objective {
	return &Objective{Kind: ObjectiveAbstract, ID: id, Name: name, Children: children}
}

// NewPrimitiveObjective builds a primitive objective. A nil score function
// is replaced by the increasing default for the domain.
func NewPrimitiveObjective(id, name string, d Domain, sf ScoreFunction, color string) *Objective {
	if sf == nil && d != nil {
		sf = DefaultScoreFunction(d, true)
	}
	return &Objective{Kind: ObjectivePrimitive, ID: id, Name: name, Domain: d, DefaultScoreFunction: sf, Color: color}
}

func (o *Objective) IsPrimitive() bool { return o.Kind == ObjectivePrimitive }

// Walk visits o and its descendants depth first, parents before children.
// Returning false from fn stops descent into that node's children.
func (o *Objective) Walk(fn func(obj *Objective, depth int) bool) {
	o.walk(fn, 0)
}

func (o *Objective) walk(fn func(*Objective, int) bool, depth int) {
	if !fn(o, depth) {
		return
	}
	for _, c := range o.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns the objective with the given id, or nil.
func (o *Objective) Find(id string) *Objective {
	var found *Objective
	o.Walk(func(obj *Objective, _ int) bool {
		if found != nil {
			return false
		}
		if obj.ID == id {
			found = obj
			return false
		}
		return true
	})
	return found
}

// Parent returns the abstract objective whose children include id.
func (o *Objective) Parent(id string) *Objective {
	var parent *Objective
	o.Walk(func(obj *Objective, _ int) bool {
		if parent != nil {
			return false
		}
		for _, c := range obj.Children {
			if c.ID == id {
				parent = obj
				return false
			}
		}
		return true
	})
	return parent
}

// Primitives returns the leaf objectives in depth-first order.
func (o *Objective) Primitives() []*Objective {
	var out []*Objective
	o.Walk(func(obj *Objective, _ int) bool {
		if obj.IsPrimitive() {
			out = append(out, obj)
		}
		return true
	})
	return out
}

// PrimitiveIDs returns the ids of Primitives().
func (o *Objective) PrimitiveIDs() []string {
	prims := o.Primitives()
	ids := make([]string, len(prims))
	for i, p := range prims {
		ids[i] = p.ID
	}
	return ids
}

// Validate checks that abstract objectives have children, primitives have
// a domain and ids are unique.
func (o *Objective) Validate() error {
	seen := make(map[string]struct{})
	var err error
	o.Walk(func(obj *Objective, _ int) bool {
		if err != nil {
			return false
		}
		if obj.ID == "" {
			err = fmt.Errorf("%w: empty id", ErrInvalidObjective)
			return false
		}
		if _, dup := seen[obj.ID]; dup {
			err = fmt.Errorf("%w: %s", ErrDuplicateObjective, obj.ID)
			return false
		}
		seen[obj.ID] = struct{}{}
		switch obj.Kind {
		case ObjectiveAbstract:
			if len(obj.Children) == 0 {
				err = fmt.Errorf("%w: abstract objective %s has no children", ErrInvalidObjective, obj.ID)
			}
		case ObjectivePrimitive:
			if obj.Domain == nil {
				err = fmt.Errorf("%w: primitive objective %s has no domain", ErrInvalidObjective, obj.ID)
			}
		default:
			err = fmt.Errorf("%w: unknown kind %q", ErrInvalidObjective, obj.Kind)
		}
		return err == nil
	})
	return err
}

// Clone deep-copies the subtree.
func (o *Objective) Clone() *Objective {
	c := *o
	if o.DefaultScoreFunction != nil {
		c.DefaultScoreFunction = o.DefaultScoreFunction.Clone()
	}
	if o.Domain != nil {
		// Domains are immutable once attached except for categorical
		// insertion, so copy through the wire form.
		d, _ := marshalDomain(o.Domain).toDomain()
		c.Domain = d
	}
	if o.Children != nil {
		c.Children = make([]*Objective, len(o.Children))
		for i, child := range o.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// Equal reports structural equality of two subtrees.
func (o *Objective) Equal(other *Objective) bool {
	if other == nil || o.Kind != other.Kind || o.ID != other.ID || o.Name != other.Name ||
		o.Description != other.Description || o.Color != other.Color || len(o.Children) != len(other.Children) {
		return false
	}
	if o.Domain != nil || other.Domain != nil {
		a, _ := MarshalDomain(o.Domain)
		b, _ := MarshalDomain(other.Domain)
		if string(a) != string(b) {
			return false
		}
	}
	if (o.DefaultScoreFunction == nil) != (other.DefaultScoreFunction == nil) {
		return false
	}
	if o.DefaultScoreFunction != nil && !o.DefaultScoreFunction.Equal(other.DefaultScoreFunction) {
		return false
	}
	for i := range o.Children {
		if !o.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

type objectiveJSON struct {
	Type                 ObjectiveKind    `json:"type"`
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description,omitempty"`
	Children             []*Objective     `json:"children,omitempty"`
	Domain               *domainJSON      `json:"domain,omitempty"`
	DefaultScoreFunction *json.RawMessage `json:"default_score_function,omitempty"`
	Color                string           `json:"color,omitempty"`
}

func (o *Objective) MarshalJSON() ([]byte, error) {
	j := objectiveJSON{
		Type:        o.Kind,
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Children:    o.Children,
		Color:       o.Color,
	}
	if o.Domain != nil {
		d := marshalDomain(o.Domain)
		j.Domain = &d
	}
	if o.DefaultScoreFunction != nil {
		raw, err := MarshalScoreFunction(o.DefaultScoreFunction)
		if err != nil {
			return nil, err
		}
		msg := json.RawMessage(raw)
		j.DefaultScoreFunction = &msg
	}
	return json.Marshal(j)
}

func (o *Objective) UnmarshalJSON(data []byte) error {
	var j objectiveJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*o = Objective{
		Kind:        j.Type,
		ID:          j.ID,
		Name:        j.Name,
		Description: j.Description,
		Children:    j.Children,
		Color:       j.Color,
	}
	if j.Domain != nil {
		d, err := j.Domain.toDomain()
		if err != nil {
			return fmt.Errorf("objective %s: %w", j.ID, err)
		}
		o.Domain = d
	}
	if j.DefaultScoreFunction != nil {
		sf, err := UnmarshalScoreFunction(*j.DefaultScoreFunction)
		if err != nil {
			return fmt.Errorf("objective %s: %w", j.ID, err)
		}
		o.DefaultScoreFunction = sf
	} else if o.Kind == ObjectivePrimitive && o.Domain != nil {
		o.DefaultScoreFunction = DefaultScoreFunction(o.Domain, true)
	}
	return nil
}

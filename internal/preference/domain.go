package preference

import (
	"encoding/json"
	"fmt"
	"math"
)

// DomainKind identifies the variant of a Domain.
type DomainKind string

const (
	DomainCategorical DomainKind = "categorical"
	DomainContinuous  DomainKind = "continuous"
	DomainInterval    DomainKind = "interval"
)

// Domain describes the legal value range of a primitive objective.
type Domain interface {
	Kind() DomainKind
	// Elements returns the finite element set. Continuous domains are
	// infinite and return nil.
	Elements() []Element
	Contains(e Element) bool
	domain()
}

// CategoricalDomain is a set of labels kept in insertion order.
type CategoricalDomain struct {
	Ordered  bool
	elements []string
	index    map[string]struct{}
}

// NewCategoricalDomain builds a categorical domain, rejecting duplicate labels.
func NewCategoricalDomain(ordered bool, labels ...string) (*CategoricalDomain, error) {
	d := &CategoricalDomain{Ordered: ordered, index: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		if err := d.AddElement(l); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *CategoricalDomain) Kind() DomainKind { return DomainCategorical }
func (d *CategoricalDomain) domain()          {}

// AddElement appends a label. Duplicates are rejected with ErrDuplicateElement.
func (d *CategoricalDomain) AddElement(label string) error {
	if d.index == nil {
		d.index = make(map[string]struct{})
	}
	if _, ok := d.index[label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateElement, label)
	}
	d.index[label] = struct{}{}
	d.elements = append(d.elements, label)
	return nil
}

func (d *CategoricalDomain) RemoveElement(label string) {
	if _, ok := d.index[label]; !ok {
		return
	}
	delete(d.index, label)
	for i, l := range d.elements {
		if l == label {
			d.elements = append(d.elements[:i], d.elements[i+1:]...)
			return
		}
	}
}

func (d *CategoricalDomain) Elements() []Element {
	out := make([]Element, len(d.elements))
	for i, l := range d.elements {
		out[i] = Label(l)
	}
	return out
}

func (d *CategoricalDomain) Contains(e Element) bool {
	if e.IsNumeric() {
		return false
	}
	_, ok := d.index[e.label]
	return ok
}

// ContinuousDomain is the closed range [Min, Max].
type ContinuousDomain struct {
	Min  float64
	Max  float64
	Unit string
}

func (d *ContinuousDomain) Kind() DomainKind    { return DomainContinuous }
func (d *ContinuousDomain) Elements() []Element { return nil }
func (d *ContinuousDomain) domain()             {}

func (d *ContinuousDomain) Contains(e Element) bool {
	v, ok := e.Float()
	return ok && v >= d.Min && v <= d.Max
}

// IntervalDomain is the finite set {Min, Min+Step, ..., Max}.
type IntervalDomain struct {
	Min  float64
	Max  float64
	Step float64
}

func (d *IntervalDomain) Kind() DomainKind { return DomainInterval }
func (d *IntervalDomain) domain()          {}

// Elements are computed as Min + k*Step so that repeated calls produce
// identical floats.
func (d *IntervalDomain) Elements() []Element {
	if d.Step <= 0 || d.Max < d.Min {
		return nil
	}
	n := int(math.Floor((d.Max-d.Min)/d.Step+1e-9)) + 1
	out := make([]Element, 0, n)
	for k := 0; k < n; k++ {
		out = append(out, Number(d.Min+float64(k)*d.Step))
	}
	return out
}

func (d *IntervalDomain) Contains(e Element) bool {
	v, ok := e.Float()
	if !ok || v < d.Min || v > d.Max || d.Step <= 0 {
		return false
	}
	k := (v - d.Min) / d.Step
	return math.Abs(k-math.Round(k)) < 1e-9
}

type domainJSON struct {
	Type     DomainKind `json:"type"`
	Ordered  bool       `json:"ordered,omitempty"`
	Elements []string   `json:"elements,omitempty"`
	Min      float64    `json:"min,omitempty"`
	Max      float64    `json:"max,omitempty"`
	Step     float64    `json:"step,omitempty"`
	Unit     string     `json:"unit,omitempty"`
}

func marshalDomain(d Domain) domainJSON {
	switch v := d.(type) {
	case *CategoricalDomain:
		return domainJSON{Type: DomainCategorical, Ordered: v.Ordered, Elements: append([]string(nil), v.elements...)}
	case *ContinuousDomain:
		return domainJSON{Type: DomainContinuous, Min: v.Min, Max: v.Max, Unit: v.Unit}
	case *IntervalDomain:
		return domainJSON{Type: DomainInterval, Min: v.Min, Max: v.Max, Step: v.Step}
	}
	return domainJSON{}
}

func (j domainJSON) toDomain() (Domain, error) {
	switch j.Type {
	case DomainCategorical:
		return NewCategoricalDomain(j.Ordered, j.Elements...)
	case DomainContinuous:
		if j.Max < j.Min {
			return nil, fmt.Errorf("continuous domain: max %v < min %v", j.Max, j.Min)
		}
		return &ContinuousDomain{Min: j.Min, Max: j.Max, Unit: j.Unit}, nil
	case DomainInterval:
		if j.Step <= 0 || j.Max < j.Min {
			return nil, fmt.Errorf("interval domain: invalid range [%v, %v] step %v", j.Min, j.Max, j.Step)
		}
		return &IntervalDomain{Min: j.Min, Max: j.Max, Step: j.Step}, nil
	}
	return nil, fmt.Errorf("unknown domain type %q", j.Type)
}

// MarshalDomain encodes a domain with a "type" discriminator.
func MarshalDomain(d Domain) ([]byte, error) {
	return json.Marshal(marshalDomain(d))
}

// UnmarshalDomain decodes a domain written by MarshalDomain.
func UnmarshalDomain(data []byte) (Domain, error) {
	var j domainJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return j.toDomain()
}

package preference

import (
	"errors"
	"testing"
)

func TestCategoricalDomainRejectsDuplicates(t *testing.T) {
	_, err := NewCategoricalDomain(false, "red", "green", "red")
	if !errors.Is(err, ErrDuplicateElement) {
		t.Fatalf("expected ErrDuplicateElement, got %v", err)
	}

	d, err := NewCategoricalDomain(true, "small", "medium", "large")
	if err != nil {
		t.Fatal(err)
	}
	els := d.Elements()
	if len(els) != 3 || els[0] != Label("small") || els[2] != Label("large") {
		t.Errorf("insertion order not preserved: %v", els)
	}
	d.RemoveElement("medium")
	if d.Contains(Label("medium")) {
		t.Error("expected medium to be removed")
	}
	if err := d.AddElement("medium"); err != nil {
		t.Errorf("re-adding a removed label failed: %v", err)
	}
}

func TestIntervalDomainElements(t *testing.T) {
	d := &IntervalDomain{Min: 0, Max: 1, Step: 0.1}
	els := d.Elements()
	if len(els) != 11 {
		t.Fatalf("expected 11 elements, got %d", len(els))
	}
	if v, _ := els[10].Float(); v != 1 {
		t.Errorf("expected last element 1, got %v", v)
	}
	if !d.Contains(Number(0.3)) {
		t.Error("expected 0.3 in domain")
	}
	if d.Contains(Number(0.35)) {
		t.Error("expected 0.35 outside domain")
	}
}

func TestContinuousDomainContains(t *testing.T) {
	d := &ContinuousDomain{Min: -1, Max: 1, Unit: "m"}
	if d.Elements() != nil {
		t.Error("continuous domain should not enumerate elements")
	}
	if !d.Contains(Number(-1)) || !d.Contains(Number(1)) {
		t.Error("bounds are inclusive")
	}
	if d.Contains(Number(1.01)) || d.Contains(Label("1")) {
		t.Error("unexpected membership")
	}
}

func TestDomainEncoding(t *testing.T) {
	in, _ := NewCategoricalDomain(true, "a", "b")
	data, err := MarshalDomain(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := UnmarshalDomain(data)
	if err != nil {
		t.Fatal(err)
	}
	cat, ok := out.(*CategoricalDomain)
	if !ok || !cat.Ordered || len(cat.Elements()) != 2 {
		t.Errorf("unexpected decoded domain %#v", out)
	}

	if _, err := UnmarshalDomain([]byte(`{"type":"interval","min":0,"max":5,"step":0}`)); err == nil {
		t.Error("expected error for zero step")
	}
}

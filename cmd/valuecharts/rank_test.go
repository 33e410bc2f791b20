package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

func TestWriteRankTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeRankTable(&buf, []string{"price", "location", "size"}, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	// (1 + 1/2 + 1/3) / 3, (1/2 + 1/3) / 3, (1/3) / 3
	for _, want := range []string{"price", "0.6111", "location", "0.2778", "size", "0.1111"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWriteRankTableRejectsDuplicates(t *testing.T) {
	err := writeRankTable(&bytes.Buffer{}, []string{"price", "price"}, 4)
	if !errors.Is(err, preference.ErrDuplicateObjective) {
		t.Errorf("expected ErrDuplicateObjective, got %v", err)
	}
}

func TestRankCommandRequiresArgs(t *testing.T) {
	cmd := newRankCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without objectives")
	}
}

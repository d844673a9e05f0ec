package main

import (
	"strings"
	"testing"

	"hlcli/internal/hlapi"
)

func TestCumulativeDepth(t *testing.T) {
	levels := []hlapi.BookLevel{
		{Px: "100", Sz: "1", N: 2},
		{Px: "99", Sz: "2", N: 1},
		{Px: "98", Sz: "3", N: 4},
	}

	depth := cumulativeDepth(levels, 10)
	if len(depth) != 3 {
		t.Fatalf("level count: %d", len(depth))
	}
	for i, want := range []float64{1, 3, 6} {
		if depth[i].Cumulative != want {
			t.Fatalf("cumulative[%d] = %v, want %v", i, depth[i].Cumulative, want)
		}
	}

	if got := cumulativeDepth(levels, 2); len(got) != 2 {
		t.Fatalf("level cap not applied: %d", len(got))
	}
	if got := cumulativeDepth(nil, 10); len(got) != 0 {
		t.Fatalf("empty book: %+v", got)
	}
}

func TestDepthBar(t *testing.T) {
	if got := depthBar(1, 20); got != strings.Repeat("█", 20) {
		t.Fatalf("full bar: %q", got)
	}
	if got := depthBar(0.5, 20); got != strings.Repeat("█", 10) {
		t.Fatalf("half bar: %q", got)
	}
	// A present level always gets at least one cell, and ratios are clamped.
	if got := depthBar(0, 20); got != "█" {
		t.Fatalf("minimum bar: %q", got)
	}
	if got := depthBar(5, 20); got != strings.Repeat("█", 20) {
		t.Fatalf("over-full bar not clamped: %q", got)
	}
}

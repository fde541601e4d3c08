package fedwatch

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestBuildGridSpansInputs(t *testing.T) {
	g := buildGrid([]float64{4.33, 4.375, 4.08}, RateStep)
	if len(g.buckets) == 0 {
		t.Fatal("empty grid")
	}
	// Every input rate, padded by a full point each side, must fall inside.
	lowEdge := g.base
	highEdge := g.base + float64(len(g.buckets))*g.step
	for _, r := range []float64{4.08 - 1.0, 4.375 + 1.0} {
		if r < lowEdge || r > highEdge {
			t.Fatalf("rate %.2f outside grid [%.2f, %.2f]", r, lowEdge, highEdge)
		}
	}
}

func TestGridLabelsAreContiguous(t *testing.T) {
	g := buildGrid([]float64{4.375}, RateStep)
	prevHigh := -1
	for _, label := range g.buckets {
		parts := strings.Split(label, "-")
		if len(parts) != 2 {
			t.Fatalf("bad label %q", label)
		}
		low, _ := strconv.Atoi(parts[0])
		high, _ := strconv.Atoi(parts[1])
		if high-low != 25 {
			t.Fatalf("bucket %q is not 25bp wide", label)
		}
		if prevHigh >= 0 && low != prevHigh {
			t.Fatalf("gap before bucket %q", label)
		}
		prevHigh = high
	}
}

func TestGridIndexOf(t *testing.T) {
	g := buildGrid([]float64{4.375}, RateStep)
	idx := g.indexOf(4.375)
	if got := g.buckets[idx]; got != "425-450" {
		t.Fatalf("midpoint 4.375 landed in %q", got)
	}
	if g.indexOf(-100.0) != 0 {
		t.Fatal("below-grid rate not clamped to first bucket")
	}
	if g.indexOf(100.0) != len(g.buckets)-1 {
		t.Fatal("above-grid rate not clamped to last bucket")
	}
}

func TestSnapshotRenormalizes(t *testing.T) {
	g := buildGrid([]float64{4.375}, RateStep)
	state := make([]float64, len(g.buckets))
	// Simulate edge loss: only 80 points of mass left.
	state[g.indexOf(4.375)] = 80.0
	probs := g.snapshot(state)
	total := 0.0
	for _, p := range probs {
		total += p
	}
	if math.Abs(total-100.0) > 0.5 {
		t.Fatalf("snapshot total %.2f, want ~100", total)
	}
}

func TestLabelMidpoint(t *testing.T) {
	mid, ok := labelMidpoint("425-450")
	if !ok || mid != 4.375 {
		t.Fatalf("labelMidpoint(425-450) = %.4f, %v", mid, ok)
	}
	if _, ok := labelMidpoint("garbage"); ok {
		t.Fatal("parsed a garbage label")
	}
	if _, ok := labelMidpoint("-25-0"); ok {
		t.Fatal("negative-band labels are not parseable and must be skipped")
	}
}

package pair_test

import (
	"testing"

	"github.com/dantte-lp/gosubtype/internal/pair"
)

func TestSwap(t *testing.T) {
	t.Parallel()

	p := pair.New(1, 2)
	p.Swap()

	if p.Left != 2 || p.Right != 1 {
		t.Fatalf("Swap() = %+v, want {Left:2 Right:1}", p)
	}
}

func TestSwapped(t *testing.T) {
	t.Parallel()

	p := pair.New("a", "b")
	q := pair.Swapped(p)

	if q.Left != "b" || q.Right != "a" {
		t.Fatalf("Swapped() = %+v, want {Left:b Right:a}", q)
	}
	if p.Left != "a" || p.Right != "b" {
		t.Fatalf("Swapped() mutated its argument: %+v", p)
	}
}

func TestMap(t *testing.T) {
	t.Parallel()

	p := pair.New(2, 3)
	q := pair.Map(p, func(n int) int { return n * n })

	if q.Left != 4 || q.Right != 9 {
		t.Fatalf("Map() = %+v, want {Left:4 Right:9}", q)
	}
}

func TestZip(t *testing.T) {
	t.Parallel()

	p := pair.New(1, 2)
	q := pair.New("x", "y")
	z := pair.Zip(p, q)

	if z.Left.First != 1 || z.Left.Second != "x" {
		t.Fatalf("Zip().Left = %+v", z.Left)
	}
	if z.Right.First != 2 || z.Right.Second != "y" {
		t.Fatalf("Zip().Right = %+v", z.Right)
	}
}

func TestAll(t *testing.T) {
	t.Parallel()

	if !pair.All(pair.New(2, 4), func(n int) bool { return n%2 == 0 }) {
		t.Fatal("All() = false, want true")
	}
	if pair.All(pair.New(2, 3), func(n int) bool { return n%2 == 0 }) {
		t.Fatal("All() = true, want false")
	}
}

package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClampAbs(t *testing.T) {
	cases := []struct {
		v, limit, want float64
	}{
		{300, 250, 250},
		{-300, 250, -250},
		{100, 250, 100},
		{-40, 130, -40},
		{0, 10, 0},
	}
	for _, c := range cases {
		if got := ClampAbs(c.v, c.limit); got != c.want {
			t.Fatalf("ClampAbs(%v, %v) = %v, want %v", c.v, c.limit, got, c.want)
		}
	}
}

func TestCubeInOutEndpoints(t *testing.T) {
	if CubeInOut(0) != 0 || CubeInOut(1) != 1 {
		t.Fatalf("ease must map 0->0 and 1->1")
	}
	if math.Abs(CubeInOut(0.5)-0.5) > 1e-12 {
		t.Fatalf("ease must be symmetric around 0.5, got %v", CubeInOut(0.5))
	}
}

func TestCurveEndpoints(t *testing.T) {
	c := Curve{Begin: mgl64.Vec2{-8, 0}, Control: mgl64.Vec2{-10, -14}, End: mgl64.Vec2{0, -12}}
	if c.Point(0) != c.Begin {
		t.Fatalf("t=0 must be Begin, got %v", c.Point(0))
	}
	if !c.Point(1).ApproxEqual(c.End) {
		t.Fatalf("t=1 must be End, got %v", c.Point(1))
	}
}

func TestRectOverlapIsStrict(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 8, Height: 11}
	touching := Rect{X: 8, Y: 0, Width: 8, Height: 8}
	if a.Overlaps(touching) {
		t.Fatalf("edge contact must not count as overlap")
	}
	if !a.Offset(mgl64.Vec2{1, 0}).Overlaps(touching) {
		t.Fatalf("shifted box should overlap")
	}
}

package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Buckets is the number of compass buckets. Bucket 0 is left and the index
// increases clockwise on screen (y grows downward).
const Buckets = 8

const (
	BucketLeft = iota
	BucketUpLeft
	BucketUp
	BucketUpRight
	BucketRight
	BucketDownRight
	BucketDown
	BucketDownLeft
)

var bucketNames = [Buckets]string{"left", "up_left", "up", "up_right", "right", "down_right", "down", "down_left"}

func BucketName(b int) string {
	return bucketNames[foldBucket(b)]
}

// Classify maps a vector to its compass bucket. The zero vector has angle 0
// and classifies as right.
func Classify(v mgl64.Vec2) int {
	return ClassifyDegrees(mgl64.RadToDeg(math.Atan2(v.Y(), v.X())))
}

// ClassifyDegrees maps an angle in degrees to its compass bucket. Any finite
// angle is accepted; non-finite input classifies as left.
func ClassifyDegrees(deg float64) int {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return BucketLeft
	}
	deg = math.Mod(deg, 360)
	if deg >= 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return foldBucket(int(math.Round((deg + 180) / 45)))
}

func foldBucket(b int) int {
	b %= Buckets
	if b < 0 {
		b += Buckets
	}
	return b
}

var bucketVectors = [Buckets]mgl64.Vec2{
	{-1, 0},
	{-math.Sqrt2 / 2, -math.Sqrt2 / 2},
	{0, -1},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2},
	{1, 0},
	{math.Sqrt2 / 2, math.Sqrt2 / 2},
	{0, 1},
	{-math.Sqrt2 / 2, math.Sqrt2 / 2},
}

// BucketVector returns the unit vector at the centre of bucket b.
func BucketVector(b int) mgl64.Vec2 {
	return bucketVectors[foldBucket(b)]
}

// SurfaceNormal reduces v to the axis-aligned unit probe direction along its
// dominant axis. Ties go to the horizontal axis; the zero vector stays zero.
func SurfaceNormal(v mgl64.Vec2) mgl64.Vec2 {
	ax, ay := math.Abs(v.X()), math.Abs(v.Y())
	switch {
	case ax == 0 && ay == 0:
		return mgl64.Vec2{}
	case ax >= ay:
		return mgl64.Vec2{math.Copysign(1, v.X()), 0}
	default:
		return mgl64.Vec2{0, math.Copysign(1, v.Y())}
	}
}

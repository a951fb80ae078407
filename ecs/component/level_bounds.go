package component

import "github.com/milk9111/bouncehelper/common"

// LevelBounds stores the world-space bounds of the current room.
type LevelBounds struct {
	Bounds common.Rect
}

var LevelBoundsComponent = NewComponent[LevelBounds]()

package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
)

// Event types pushed for the host to drain.
const (
	EventSound     ecs.EventType = "sound"
	EventBurst     ecs.EventType = "burst"
	EventTrail     ecs.EventType = "trail"
	EventRumble    ecs.EventType = "rumble"
	EventRipple    ecs.EventType = "ripple"
	EventAnimation ecs.EventType = "animation"
)

func emit(w *ecs.World, e ecs.Entity, t ecs.EventType, data any) {
	w.Events().Push(ecs.Event{Type: t, Entity: e, Data: data})
}

func playSound(w *ecs.World, e ecs.Entity, event string, at mgl64.Vec2) {
	if event == "" {
		return
	}
	emit(w, e, EventSound, component.SoundRequest{Event: event, At: at})
}

func rumble(w *ecs.World, e ecs.Entity, strength, duration float64) {
	emit(w, e, EventRumble, component.RumbleRequest{Strength: strength, Duration: duration})
}

// Rumble presets.
const (
	rumbleMedium = 0.5
	rumbleStrong = 0.8
	rumbleShort  = 0.1
)

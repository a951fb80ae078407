package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/bouncehelper/common"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/sandbox"
	"golang.org/x/image/colornames"
)

var capabilityColors = []struct {
	cap component.Capability
	clr color.Color
}{
	{component.CapPorous, colornames.Mediumpurple},
	{component.CapActivator, colornames.Orange},
	{component.CapImpulse, colornames.Crimson},
	{component.CapToggle, colornames.Teal},
	{component.CapTrigger, colornames.Goldenrod},
}

var stateColors = map[component.PrimaryState]color.Color{
	component.StateNormal:    colornames.Lightskyblue,
	component.StateDash:      colornames.Hotpink,
	component.StateDreamDash: colornames.Violet,
	component.StateClimb:     colornames.Lime,
}

// view maps room coordinates onto the screen.
type view struct {
	scale  float64
	offset common.Rect
}

func newView(bounds common.Rect) view {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return view{scale: 1}
	}
	scale := math.Min(baseWidth/bounds.Width, baseHeight/bounds.Height)
	return view{scale: scale, offset: bounds}
}

func (v view) rect(r common.Rect) (x, y, w, h float32) {
	return float32((r.X - v.offset.X) * v.scale),
		float32((r.Y - v.offset.Y) * v.scale),
		float32(r.Width * v.scale),
		float32(r.Height * v.scale)
}

func solidColor(caps component.Capability) color.Color {
	for _, c := range capabilityColors {
		if caps.Has(c.cap) {
			return c.clr
		}
	}
	return colornames.Slategray
}

func drawRoom(screen *ebiten.Image, sb *sandbox.Sandbox) {
	screen.Fill(colornames.Midnightblue)
	if sb == nil {
		return
	}
	v := newView(sb.Room.Bounds)
	w := sb.World

	ecs.ForEach(w, component.SolidComponent.Kind(), func(e ecs.Entity, s *component.Solid) {
		x, y, width, height := v.rect(s.Bounds)
		vector.DrawFilledRect(screen, x, y, width, height, solidColor(s.Caps), false)
		if s.Caps.Count() > 1 {
			vector.StrokeRect(screen, x, y, width, height, 1, colornames.White, false)
		}
	})

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.HoldableComponent.Kind(), func(e ecs.Entity, body *component.Body, _ *component.Holdable) {
		clr := color.Color(colornames.Tan)
		if c, ok := ecs.Get(w, e, component.CompanionComponent.Kind()); ok {
			if c.Destroyed {
				return
			}
			clr = colornames.Gold
			if c.Dashes == 0 {
				clr = colornames.Darkgoldenrod
			}
		}
		x, y, width, height := v.rect(body.Hitbox())
		vector.DrawFilledRect(screen, x, y, width, height, clr, false)
	})

	body := sb.Player()
	if body == nil {
		return
	}
	clr, ok := stateColors[body.State]
	if !ok {
		clr = colornames.White
	}
	x, y, width, height := v.rect(body.Hitbox())
	vector.DrawFilledRect(screen, x, y, width, height, clr, false)
	if inv := sb.Inventory(); inv != nil && inv.Dashes == 0 {
		vector.StrokeRect(screen, x, y, width, height, 1, colornames.Dodgerblue, false)
	}
}

func drawHUD(screen *ebiten.Image, g *Game) {
	sb := g.sandbox
	body := sb.Player()
	if body == nil {
		return
	}

	lines := []string{
		fmt.Sprintf("FPS %.1f  frame %d  bounce %v", ebiten.ActualFPS(), sb.Frame(), g.flags.Flag(bounceFlag)),
		fmt.Sprintf("pos %6.1f %6.1f  vel %7.1f %7.1f", body.Position.X(), body.Position.Y(), body.Velocity.X(), body.Velocity.Y()),
		fmt.Sprintf("state %s  ground %v", body.State, body.OnGround),
	}
	if inv := sb.Inventory(); inv != nil {
		lines = append(lines, fmt.Sprintf("dashes %d/%d", inv.Dashes, inv.MaxDashes))
	}
	if timers := sb.Timers(); timers != nil {
		var active []string
		for _, key := range timers.TimerKeys() {
			if timers.Active(key) {
				active = append(active, fmt.Sprintf("%s=%.2f", key, timers.Timer(key)))
			}
		}
		if len(active) > 0 {
			lines = append(lines, strings.Join(active, " "))
		}
	}
	if len(g.sounds) > 0 {
		lines = append(lines, "sfx "+strings.Join(g.sounds, ", "))
	}
	if g.script != nil {
		status := "running"
		if g.script.Failed() {
			status = "stopped"
		}
		lines = append(lines, fmt.Sprintf("script %s (%s)", g.script.Path, status))
	}
	if g.statusTTL > 0 {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), 4, 4)
}

package main

import (
	"errors"
	"sync"

	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/sandbox"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

type stateDump struct {
	Frame    int                `yaml:"frame"`
	Bounce   bool               `yaml:"bounce_mode"`
	State    string             `yaml:"state"`
	Position [2]float64         `yaml:"position"`
	Velocity [2]float64         `yaml:"velocity"`
	OnGround bool               `yaml:"on_ground"`
	DashDir  [2]float64         `yaml:"dash_dir"`
	Dashes   int                `yaml:"dashes"`
	Carrying bool               `yaml:"carrying"`
	Timers   map[string]float64 `yaml:"timers,omitempty"`
	Pending  *component.Bounce  `yaml:"pending,omitempty"`
}

// dumpState renders the player's frame state as YAML.
func dumpState(sb *sandbox.Sandbox) ([]byte, error) {
	e, err := playerEntity(sb)
	if err != nil {
		return nil, err
	}
	body := sb.Player()
	if body == nil {
		return nil, errNoPlayer
	}
	d := stateDump{
		Frame:    sb.Frame(),
		Bounce:   sb.Bounce.Enabled(),
		State:    body.State.String(),
		Position: [2]float64{body.Position.X(), body.Position.Y()},
		Velocity: [2]float64{body.Velocity.X(), body.Velocity.Y()},
		OnGround: body.OnGround,
		DashDir:  [2]float64{body.DashDir.X(), body.DashDir.Y()},
	}
	if inv := sb.Inventory(); inv != nil {
		d.Dashes = inv.Dashes
	}
	if h := sb.Holder(); h != nil {
		d.Carrying = h.Carrying()
	}
	if timers := sb.Timers(); timers != nil {
		d.Timers = map[string]float64{}
		for _, key := range timers.TimerKeys() {
			if timers.Active(key) {
				d.Timers[key] = timers.Timer(key)
			}
		}
	}
	if b, ok := ecs.Get(sb.World, e, component.BounceComponent.Kind()); ok {
		d.Pending = b
	}
	return yaml.Marshal(d)
}

var errNoClipboard = errors.New("bouncelab: clipboard unavailable")

// stateCopier writes text to the system clipboard, initialising it on
// first use.
type stateCopier struct {
	once sync.Once
	err  error
}

func newStateCopier() *stateCopier {
	return &stateCopier{}
}

func (c *stateCopier) Copy(data []byte) error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.err = errors.Join(errNoClipboard, err)
		}
	})
	if c.err != nil {
		return c.err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

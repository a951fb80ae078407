package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/bouncehelper/ecs"
	"github.com/milk9111/bouncehelper/ecs/component"
	"github.com/milk9111/bouncehelper/ecs/system"
	"github.com/milk9111/bouncehelper/prefabs"
	"github.com/milk9111/bouncehelper/sandbox"
	"github.com/sirupsen/logrus"
)

const (
	baseWidth  = 640
	baseHeight = 368

	bounceFlag = "bounceModeEnabled"

	// Frames a status line stays on screen.
	statusFrames = 120
	soundHistory = 4
)

type Config struct {
	Room   string
	Script string
	Bounce bool
	Watch  bool
}

type Game struct {
	cfg Config

	sandbox *sandbox.Sandbox
	script  *sandbox.ScriptedInput
	tuning  *system.Tuning
	flags   system.Flags
	watcher *prefabs.Watcher
	copier  *stateCopier

	pauseUI *ebitenui.UI
	paused  bool
	quit    bool

	status    string
	statusTTL int
	sounds    []string
}

func log() *logrus.Entry {
	return system.Log().WithField("host", "bouncelab")
}

func NewGame(cfg Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		tuning: system.DefaultTuning(),
		flags:  system.Flags{bounceFlag: cfg.Bounce},
		copier: newStateCopier(),
	}
	if spec, err := prefabs.LoadBounceSpec(); err != nil {
		log().WithError(err).Warn("using built-in tuning")
	} else if t, err := system.NewTuning(spec); err != nil {
		log().WithError(err).Warn("using built-in tuning")
	} else {
		g.tuning = t
	}

	if err := g.loadRoom(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log().WithError(err).Warn("hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) loadRoom() error {
	spec, err := prefabs.LoadRoomSpec(g.cfg.Room)
	if err != nil {
		return fmt.Errorf("load room %q: %w", g.cfg.Room, err)
	}

	opts := sandbox.Options{Tuning: g.tuning, Flags: g.flags}
	var script *sandbox.ScriptedInput
	if g.cfg.Script != "" {
		script, err = sandbox.LoadScriptedInput(g.cfg.Script)
		if err != nil {
			return err
		}
		opts.Input = script
	} else {
		opts.Input = NewInputSystem()
	}

	sb, err := sandbox.New(spec, opts)
	if err != nil {
		return err
	}
	g.sandbox = sb
	g.script = script
	g.sounds = g.sounds[:0]
	log().WithFields(logrus.Fields{"room": g.cfg.Room, "script": g.cfg.Script}).Info("room loaded")
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.toggleBounce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reloadRoom()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.copyState()
	}

	g.sandbox.Step()
	g.drainEvents()

	if g.statusTTL > 0 {
		g.statusTTL--
	}
	return nil
}

func (g *Game) toggleBounce() {
	on := !g.flags.Flag(bounceFlag)
	g.sandbox.SetFlag(bounceFlag, on)
	g.setStatus(fmt.Sprintf("bounce mode: %v", on))
}

func (g *Game) reloadRoom() {
	if err := g.loadRoom(); err != nil {
		log().WithError(err).Error("room reload failed")
		g.setStatus("room reload failed")
		return
	}
	g.setStatus("room reloaded")
}

func (g *Game) copyState() {
	dump, err := dumpState(g.sandbox)
	if err != nil {
		log().WithError(err).Error("state dump failed")
		return
	}
	if err := g.copier.Copy(dump); err != nil {
		log().WithError(err).Warn("clipboard unavailable, dumping to log")
		log().Info("\n" + string(dump))
		g.setStatus("state logged")
		return
	}
	g.setStatus("state copied")
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path := <-g.watcher.Events:
			g.reloadFile(path)
		case err := <-g.watcher.Errors:
			log().WithError(err).Warn("watcher error")
		default:
			return
		}
	}
}

func (g *Game) reloadFile(path string) {
	switch filepath.Base(path) {
	case "bounce.yaml":
		spec, err := prefabs.LoadBounceSpecFile(path)
		if err == nil {
			var t *system.Tuning
			if t, err = system.NewTuning(spec); err == nil {
				g.tuning = t
				g.sandbox.SetTuning(t)
				g.setStatus("tuning reloaded")
				return
			}
		}
		log().WithError(err).WithField("path", path).Error("tuning reload failed")
		g.setStatus("tuning reload failed")
	case filepath.Base(g.cfg.Room):
		g.reloadRoom()
	}
}

func (g *Game) drainEvents() {
	for _, ev := range g.sandbox.World.Events().Drain() {
		switch ev.Type {
		case system.EventSound:
			req, ok := ev.Data.(component.SoundRequest)
			if !ok {
				continue
			}
			g.sounds = append(g.sounds, req.Event)
			if len(g.sounds) > soundHistory {
				g.sounds = g.sounds[len(g.sounds)-soundHistory:]
			}
		default:
			log().WithFields(logrus.Fields{"event": ev.Type, "entity": ev.Entity}).Debug("effect")
		}
	}
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTTL = statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawRoom(screen, g.sandbox)
	drawHUD(screen, g)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

var errNoPlayer = errors.New("bouncelab: room has no player")

func playerEntity(sb *sandbox.Sandbox) (ecs.Entity, error) {
	if sb == nil || !sb.World.IsAlive(sb.Room.Player) {
		return ecs.None, errNoPlayer
	}
	return sb.Room.Player, nil
}

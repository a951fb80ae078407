package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bouncehelper/ecs/system"
	"github.com/sirupsen/logrus"
)

func main() {
	roomName := flag.String("room", "room_lab.yaml", "room spec in prefabs/")
	scriptName := flag.String("script", "", "tengo input script in prefabs/scripts/ (keyboard when empty)")
	baseline := flag.Bool("baseline", false, "start with bounce mode disabled")
	watch := flag.Bool("watch", true, "hot reload specs from ./prefabs")
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	system.SetLogger(logger)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(Config{
		Room:   *roomName,
		Script: *scriptName,
		Bounce: !*baseline,
		Watch:  *watch,
	})
	if err != nil {
		logger.WithError(err).Fatal("bouncelab: start")
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth*2, baseHeight*2)
	ebiten.SetWindowTitle("bouncelab")

	if err := ebiten.RunGame(game); err != nil {
		logger.WithError(err).Fatal("bouncelab: run")
	}
}

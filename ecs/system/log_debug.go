//go:build bouncedebug

package system

import "github.com/sirupsen/logrus"

const debugBuild = true

const logLevel = logrus.DebugLevel

//go:build !bouncedebug

package system

import "github.com/sirupsen/logrus"

const debugBuild = false

const logLevel = logrus.InfoLevel

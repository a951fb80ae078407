package system

import "github.com/milk9111/bouncehelper/prefabs"

// FlagSource exposes the current session's boolean flags.
type FlagSource interface {
	Flag(name string) bool
}

// Flags is a FlagSource backed by a map.
type Flags map[string]bool

func (f Flags) Flag(name string) bool {
	return f[name]
}

type Settings struct {
	ForceBounceMode bool
	Flags           prefabs.FlagNameSpec
}

func SettingsFromSpec(spec prefabs.SettingsSpec) Settings {
	return Settings{ForceBounceMode: spec.ForceBounceMode, Flags: spec.Flags}
}

// Mode answers whether bounce mode overrides are active and which features
// keep their baseline behaviour. Session may be nil between levels.
type Mode struct {
	Settings Settings
	Session  FlagSource
}

func (m *Mode) flag(name string) bool {
	return m != nil && m.Session != nil && name != "" && m.Session.Flag(name)
}

func (m *Mode) Enabled() bool {
	if m == nil {
		return false
	}
	return m.flag(m.Settings.Flags.Enabled) || m.Settings.ForceBounceMode
}

func (m *Mode) UseBaselineThrow() bool {
	return m != nil && m.flag(m.Settings.Flags.UseBaselineThrow)
}

func (m *Mode) UseBaselinePickup() bool {
	return m != nil && m.flag(m.Settings.Flags.UseBaselinePickup)
}

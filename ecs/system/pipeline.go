package system

import "github.com/milk9111/bouncehelper/ecs"

// NewPipeline orders a frame: the host's own systems (input, solid index,
// movement, which fires the intercepted events), then companion dashes,
// pickup glides and finally timer decay.
func NewPipeline(dt float64, host ...ecs.System) *ecs.Scheduler {
	if dt <= 0 {
		dt = DefaultDT
	}
	s := ecs.NewScheduler(host...)
	s.Add(NewCompanionDashSystem())
	s.Add(NewPickupSystem(dt))
	s.Add(NewTimerSystem(dt))
	return s
}

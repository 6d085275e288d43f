package app

import "time"

// Scheduler runs pacing callbacks after a fixed delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler uses runtime timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

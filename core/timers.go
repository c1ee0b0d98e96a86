package orchestration

import "time"

// scheduler creates timers. It is swapped out in tests to control time.
type scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// timerSlot holds at most one pending timer. A timer that fires after it was
// replaced or cancelled is ignored.
type timerSlot struct {
	token uint64
	stop  func() bool
}

func (s *timerSlot) pending() bool {
	return s.token != 0
}

// schedule replaces any pending timer in slot. fn runs on the coordinator
// queue unless the orchestrator has been closed.
func (o *Orchestrator) schedule(slot *timerSlot, delay time.Duration, fn func()) {
	o.cancelTimer(slot)

	o.timerSeq++
	token := o.timerSeq
	slot.token = token
	slot.stop = o.scheduler.AfterFunc(delay, func() {
		o.post(func() {
			if slot.token != token {
				return
			}
			slot.token = 0
			slot.stop = nil
			fn()
		})
	})
}

func (o *Orchestrator) cancelTimer(slot *timerSlot) {
	if slot.stop != nil {
		slot.stop()
	}
	slot.token = 0
	slot.stop = nil
}

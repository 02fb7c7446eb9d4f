package usecase

import "time"

// DetectConsumedInvite is exported for testing
var DetectConsumedInvite = detectConsumedInvite

// SetScheduler replaces the delayed action scheduler for testing. The
// replacement receives the same closure the production scheduler would
// hand to time.AfterFunc.
func (uc *TicketUseCase) SetScheduler(fn func(delay time.Duration, run func())) {
	uc.schedule = fn
}

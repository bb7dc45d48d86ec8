package client

import "sync"

type gateState int

const (
	gateIdle gateState = iota
	gateRefreshing
)

func (s gateState) String() string {
	if s == gateRefreshing {
		return "refreshing"
	}
	return "idle"
}

// refreshOutcome is what a settled refresh hands to every queued request:
// either the renewed access credential or the reason the refresh failed.
type refreshOutcome struct {
	accessToken string
	err         error
}

// refreshGate admits at most one refresh at a time. It moves Idle -> Refreshing
// in enter and back in settle; waiters only exist while Refreshing.
type refreshGate struct {
	mu      sync.Mutex
	state   gateState
	waiters []chan refreshOutcome
}

// enter makes the caller the refresh leader when the gate is idle. Otherwise it
// queues a waiter and returns the channel its outcome will be delivered on.
func (g *refreshGate) enter() (wait <-chan refreshOutcome, leader bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == gateRefreshing {
		ch := make(chan refreshOutcome, 1)
		g.waiters = append(g.waiters, ch)
		return ch, false
	}
	g.state = gateRefreshing
	return nil, true
}

// settle delivers outcome to every queued waiter, in enqueue order, and resets
// the gate to idle. Waiter channels are buffered so settle never blocks, even
// when a waiter has stopped listening. It returns the number of waiters resolved.
func (g *refreshGate) settle(outcome refreshOutcome) int {
	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.state = gateIdle
	g.mu.Unlock()

	for _, ch := range waiters {
		ch <- outcome
		close(ch)
	}
	return len(waiters)
}

func (g *refreshGate) current() (gateState, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state, len(g.waiters)
}

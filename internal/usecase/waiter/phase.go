// Package waiter decides when a page has settled enough to be touched.
package waiter

import "time"

type Phase int

const (
	Installing Phase = iota
	DocumentReady
	NetworkIdle
	SpinnerGone
	DOMQuiet
	Settled
)

var phaseNames = [...]string{"installing", "document-ready", "network-idle", "spinner-gone", "dom-quiet", "settled"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Snapshot is one poll of the page.
type Snapshot struct {
	Installed   bool
	Ready       bool
	NetworkIdle bool
	SpinnerBusy bool
	DOMQuiet    bool
	// QuietCapped is set once the page has spent the maximum allowed time waiting
	// for mutations to stop.
	QuietCapped bool
}

// Next advances one phase. Earlier conditions that stop holding send the waiter back.
func Next(p Phase, s Snapshot) Phase {
	switch p {
	case Installing:
		if s.Installed {
			return DocumentReady
		}
	case DocumentReady:
		if s.Ready {
			return NetworkIdle
		}
	case NetworkIdle:
		switch {
		case !s.Ready:
			return DocumentReady
		case s.NetworkIdle:
			return SpinnerGone
		}
	case SpinnerGone:
		switch {
		case !s.NetworkIdle:
			return NetworkIdle
		case !s.SpinnerBusy:
			return DOMQuiet
		}
	case DOMQuiet:
		switch {
		case s.SpinnerBusy:
			return SpinnerGone
		case s.DOMQuiet || s.QuietCapped:
			return Settled
		}
	}
	return p
}

// Settle applies Next until the phase stops moving.
func Settle(p Phase, s Snapshot) Phase {
	for i := 0; i < len(phaseNames); i++ {
		n := Next(p, s)
		if n == p {
			break
		}
		p = n
	}
	return p
}

// QuietCap bounds the wait for DOM mutations: 1.5 x renderWait, at most 1.5s.
func QuietCap(renderWait time.Duration) time.Duration {
	return min(renderWait*3/2, 1500*time.Millisecond)
}

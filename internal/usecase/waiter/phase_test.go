package waiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	all := Snapshot{Installed: true, Ready: true, NetworkIdle: true, DOMQuiet: true}
	tests := []struct {
		name string
		from Phase
		snap Snapshot
		want Phase
	}{
		{"monitor missing", Installing, Snapshot{}, Installing},
		{"monitor installed", Installing, Snapshot{Installed: true}, DocumentReady},
		{"still loading", DocumentReady, Snapshot{Installed: true}, DocumentReady},
		{"loaded", DocumentReady, all, NetworkIdle},
		{"requests pending", NetworkIdle, Snapshot{Ready: true}, NetworkIdle},
		{"navigated away", NetworkIdle, Snapshot{}, DocumentReady},
		{"requests done", NetworkIdle, all, SpinnerGone},
		{"spinner shown", SpinnerGone, Snapshot{Ready: true, NetworkIdle: true, SpinnerBusy: true}, SpinnerGone},
		{"new request", SpinnerGone, Snapshot{Ready: true}, NetworkIdle},
		{"spinner gone", SpinnerGone, all, DOMQuiet},
		{"mutating", DOMQuiet, Snapshot{Ready: true, NetworkIdle: true}, DOMQuiet},
		{"quiet", DOMQuiet, all, Settled},
		{"capped", DOMQuiet, Snapshot{QuietCapped: true}, Settled},
		{"spinner back", DOMQuiet, Snapshot{SpinnerBusy: true}, SpinnerGone},
		{"settled stays", Settled, Snapshot{}, Settled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.from, tt.snap))
		})
	}
}

func TestSettleRunsToFixedPoint(t *testing.T) {
	assert.Equal(t, Settled, Settle(Installing, Snapshot{Installed: true, Ready: true, NetworkIdle: true, DOMQuiet: true}))
	assert.Equal(t, DOMQuiet, Settle(Installing, Snapshot{Installed: true, Ready: true, NetworkIdle: true}))
	assert.Equal(t, NetworkIdle, Settle(Installing, Snapshot{Installed: true, Ready: true}))
}

func TestQuietCap(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, QuietCap(200*time.Millisecond))
	assert.Equal(t, 1500*time.Millisecond, QuietCap(5*time.Second))
	assert.Equal(t, time.Duration(0), QuietCap(0))
}

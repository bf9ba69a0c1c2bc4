package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"browser-keywords/internal/domain/failure"

	"github.com/stretchr/testify/assert"
)

func TestMachineTransitions(t *testing.T) {
	resolve := Machine{}
	act := Machine{Act: true}
	verify := Machine{Act: true, Verify: true}

	tests := []struct {
		name string
		m    Machine
		from State
		ev   Event
		want State
	}{
		{"ready starts resolving", resolve, WaitingReady, EventReady, Resolving},
		{"ready starts acting", act, WaitingReady, EventReady, Acting},
		{"alert during wait still attempts", act, WaitingReady, EventRetryable, Acting},
		{"fatal during wait", resolve, WaitingReady, EventFatal, Failed},
		{"resolve success", resolve, Resolving, EventSuccess, Done},
		{"action success without post-condition", act, Acting, EventSuccess, Done},
		{"action success with post-condition", verify, Acting, EventSuccess, VerifyingPost},
		{"post-condition holds", verify, VerifyingPost, EventSuccess, Done},
		{"post-condition pending", verify, VerifyingPost, EventRetryable, Retrying},
		{"retryable failure", resolve, Resolving, EventRetryable, Retrying},
		{"surfaced failure", act, Acting, EventSurface, Failed},
		{"resume after pause", verify, Retrying, EventResume, Acting},
		{"resume resolving", resolve, Retrying, EventResume, Resolving},
		{"deadline while retrying", resolve, Retrying, EventExpired, Failed},
		{"done is terminal", resolve, Done, EventRetryable, Done},
		{"failed is terminal", resolve, Failed, EventResume, Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.Next(tt.from, tt.ev))
		})
	}
}

func TestMachineStart(t *testing.T) {
	assert.Equal(t, WaitingReady, Machine{}.Start(false))
	assert.Equal(t, Resolving, Machine{}.Start(true))
	assert.Equal(t, Acting, Machine{Act: true}.Start(true))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		handleAlerts bool
		want         Event
	}{
		{"nil", nil, false, EventSuccess},
		{"not found", failure.NotFound("x"), false, EventRetryable},
		{"stale", failure.New(failure.KindStaleElement, "x"), false, EventRetryable},
		{"mismatch", failure.Mismatch("x"), false, EventRetryable},
		{"value error", failure.Invalid("bad"), false, EventSurface},
		{"invalid state", failure.New(failure.KindInvalidElementState, "disabled"), false, EventSurface},
		{"no instance", failure.New(failure.KindInstanceDoesNotExist, "no table"), false, EventSurface},
		{"driver", failure.New(failure.KindDriverError, "x"), false, EventRetryable},
		{"fatal", failure.New(failure.KindBrowserFatal, "x"), false, EventFatal},
		{"raw fatal text", errors.New("session deleted because of page crash"), false, EventFatal},
		{"raw error", errors.New("boom"), false, EventRetryable},
		{"alert handled", failure.New(failure.KindUnexpectedAlert, "x"), true, EventRetryable},
		{"alert not handled", failure.New(failure.KindUnexpectedAlert, "x"), false, EventSurface},
		{"wrapped mismatch", fmt.Errorf("verify: %w", failure.Mismatch("x")), false, EventRetryable},
		{"canceled", context.Canceled, true, EventSurface},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err, tt.handleAlerts))
		})
	}
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "verifying-post", VerifyingPost.String())
	assert.Equal(t, "expired", EventExpired.String())
	assert.True(t, Done.Terminal())
	assert.False(t, Retrying.Terminal())
}

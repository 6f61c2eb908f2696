package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

type markedErr struct{ transient bool }

func (e markedErr) Error() string   { return "marked" }
func (e markedErr) Transient() bool { return e.transient }

func fastPolicy(n int) Policy {
	return Policy{MaxRetries: n, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestDo_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(3), nil, "test", func() error {
		calls++
		if calls < 3 {
			return markedErr{transient: true}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad json")
	err := Do(context.Background(), fastPolicy(5), nil, "test", func() error {
		calls++
		return permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(2), nil, "test", func() error {
		calls++
		return markedErr{transient: true}
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ZeroRetriesRunsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), fastPolicy(0), nil, "test", func() error {
		calls++
		return markedErr{transient: true}
	})
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"marked permanent", markedErr{transient: false}, false},
		{"googleapi 503", &googleapi.Error{Code: 503}, true},
		{"googleapi 429", &googleapi.Error{Code: 429}, true},
		{"googleapi 400", &googleapi.Error{Code: 400}, false},
		{"googleapi out of range", &googleapi.Error{Code: 999}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
		{600, false},
		{999, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientStatus(tt.code))
		})
	}
}

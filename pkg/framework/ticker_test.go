package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickerTick(t *testing.T) {
	var calls []uint32
	var tk *Ticker
	tk = NewTicker(1000, ISRHandlerFunc(func() {
		calls = append(calls, tk.Ticks())
	}))
	tk.Tick()
	tk.Tick()
	tk.Tick()
	require.Equal(t, []uint32{1, 2, 3}, calls)
	require.Equal(t, time.Millisecond, tk.Period())
}

func TestTickerDefaultPeriod(t *testing.T) {
	require.Equal(t, 100*time.Microsecond, (&Ticker{}).Period())
}

func TestTickerRun(t *testing.T) {
	ticks := make(chan struct{}, 1)
	tk := NewTicker(1000, ISRHandlerFunc(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}))
	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan error, 1)
	go func() { doneCh <- tk.Run(ctx) }()
	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("no tick")
		}
	}
	cancel()
	require.Equal(t, context.Canceled, <-doneCh)
	require.True(t, tk.Ticks() >= 3)
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import (
	"sync"
	"time"
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock hands out tickers, so tests can drive intervals by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time {
	return s.t.C
}

func (s systemTicker) Stop() {
	s.t.Stop()
}

// Interval calls fn once per tick on its own goroutine until stopped.
type Interval struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewInterval(clock Clock, period time.Duration, fn func()) *Interval {
	if clock == nil {
		clock = SystemClock{}
	}

	iv := &Interval{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	t := clock.NewTicker(period)

	go func() {
		defer close(iv.done)
		defer t.Stop()

		for {
			select {
			case <-iv.stop:
				return
			case <-t.C():
				select {
				case <-iv.stop:
					return
				default:
				}

				fn()
			}
		}
	}()

	return iv
}

// Stop cancels the interval and waits for its goroutine to exit. Once it
// returns, fn will not be called again. Safe to call more than once.
//
// fn must not block forever on something Stop's caller is holding.
func (iv *Interval) Stop() {
	iv.once.Do(func() {
		close(iv.stop)
	})

	<-iv.done
}

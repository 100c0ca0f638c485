// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// Package loop runs a task repeatedly with a fixed interval and a growing
// back-off after failures.
//
//	l := loop.New(loop.WithInterval(time.Minute), loop.WithContext(ctx))
//	_ = l.Do(func() (bool, error) { return false, sweep() })
package loop

import (
	"context"
	"math"
	"time"
)

type Loop struct {
	maxTimes     uint64
	declineRatio float64
	declineLimit time.Duration
	interval     time.Duration
	ctx          context.Context
}

type Option func(*Loop)

func New(options ...Option) *Loop {
	l := &Loop{
		interval:     time.Second,
		maxTimes:     math.MaxUint64,
		declineRatio: 1,
	}
	for _, op := range options {
		op(l)
	}
	return l
}

// sleep waits d or until ctx is done, reporting whether ctx ended the wait.
func sleep(ctx context.Context, d time.Duration) (done bool) {
	if ctx == nil {
		time.Sleep(d)
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return false
	case <-ctx.Done():
		return true
	}
}

// Do runs f until it asks to stop, the context ends or maxTimes runs have
// happened. After a failed run the wait grows by declineRatio, capped at
// declineLimit; a successful run resets it to the interval. Do returns the
// error of the last run.
func (l *Loop) Do(f func() (stop bool, err error)) error {
	if l.ctx != nil && l.ctx.Err() != nil {
		return nil
	}

	var err error
	wait := l.interval
	for i := uint64(0); i < l.maxTimes; i++ {
		var stop bool
		stop, err = f()
		if stop {
			return err
		}
		if err != nil {
			wait = l.backoff(wait)
		} else {
			wait = l.interval
		}
		if i+1 < l.maxTimes && sleep(l.ctx, wait) {
			return nil
		}
	}
	return err
}

func (l *Loop) backoff(last time.Duration) time.Duration {
	next := time.Duration(float64(last) * l.declineRatio)
	if l.declineLimit > 0 && next > l.declineLimit {
		next = l.declineLimit
	}
	return next
}

// WithMaxTimes 最大执行次数，默认不限制
func WithMaxTimes(n uint64) Option {
	return func(l *Loop) { l.maxTimes = n }
}

// WithDeclineRatio 失败后等待时间的增长倍数，小于 1 时忽略
func WithDeclineRatio(n float64) Option {
	return func(l *Loop) {
		if n >= 1 {
			l.declineRatio = n
		}
	}
}

// WithDeclineLimit 失败后等待时间的上限，0 表示不限制
func WithDeclineLimit(t time.Duration) Option {
	return func(l *Loop) {
		if t >= 0 {
			l.declineLimit = t
		}
	}
}

// WithInterval 两次执行之间的间隔，最小 1ms
func WithInterval(t time.Duration) Option {
	return func(l *Loop) {
		if t >= time.Millisecond {
			l.interval = t
		}
	}
}

// WithContext 通过 ctx 结束循环
func WithContext(ctx context.Context) Option {
	return func(l *Loop) { l.ctx = ctx }
}

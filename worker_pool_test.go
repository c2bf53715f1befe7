// Copyright 2025 The webwalk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webwalk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllWork(t *testing.T) {
	pool := newWorkerPool(context.Background(), 4)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := pool.submit(func() {
			defer wg.Done()
			atomic.AddInt64(&count, 1)
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
	pool.close()

	if count != 20 {
		t.Errorf("Expected 20 completed work items, got %d", count)
	}
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	// No workers: only cancellation can unblock submit.
	pool := newWorkerPool(ctx, 0)

	cancel()
	if err := pool.submit(func() {}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// A closure waiting behind a busy worker when the run is cancelled must
// either be handed off and run, or rejected with the context error. It
// must never be accepted and then silently dropped, or anything counting
// completions would wait forever.
func TestWorkerPoolCancelHandsOffOrRejects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := newWorkerPool(ctx, 1)

	release := make(chan struct{})
	if err := pool.submit(func() { <-release }); err != nil {
		t.Fatal(err)
	}

	ran := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- pool.submit(func() { close(ran) })
	}()

	cancel()
	close(release)

	select {
	case err := <-errc:
		if err == nil {
			select {
			case <-ran:
			case <-time.After(2 * time.Second):
				t.Fatal("Accepted closure never ran")
			}
		} else if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submit still blocked after cancellation")
	}
	pool.close()
}

func TestWorkerPoolCloseWaitsForInFlight(t *testing.T) {
	pool := newWorkerPool(context.Background(), 2)

	var done int64
	release := make(chan struct{})
	for i := 0; i < 2; i++ {
		if err := pool.submit(func() {
			<-release
			atomic.AddInt64(&done, 1)
		}); err != nil {
			t.Fatal(err)
		}
	}
	close(release)
	pool.close()

	if done != 2 {
		t.Errorf("close returned before in-flight work finished: %d done", done)
	}
}

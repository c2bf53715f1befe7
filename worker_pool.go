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
	"sync"
)

// workerPool runs fetch closures on a fixed number of goroutines.
// The crawler creates one pool per run when Parallelism > 1 and closes
// it before Run returns, so workers never outlive their crawl.
//
// The queue is unbuffered: a nil return from submit means a worker has
// received the closure and will run it. Callers that count completions
// never wait on a closure no worker will pick up, even when the run is
// cancelled mid-batch.
type workerPool struct {
	workQueue chan func()
	wg        sync.WaitGroup
	ctx       context.Context
}

func newWorkerPool(ctx context.Context, workers int) *workerPool {
	wp := &workerPool{
		workQueue: make(chan func()),
		ctx:       ctx,
	}
	for i := 0; i < workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
	return wp
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work()
		case <-wp.ctx.Done():
			return
		}
	}
}

// submit hands a work item to a worker, blocking until one is free. It
// returns the context error when the run is cancelled before handoff.
func (wp *workerPool) submit(work func()) error {
	select {
	case wp.workQueue <- work:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// close drains the pool: no further submissions, and all in-flight work
// completes before close returns.
func (wp *workerPool) close() {
	close(wp.workQueue)
	wp.wg.Wait()
}

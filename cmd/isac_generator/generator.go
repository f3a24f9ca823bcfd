// This file is Free Software under the MIT License
// without warranty, see README.md and LICENSES/MIT.txt for details.
//
// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: 2025 The isac_bench Authors <https://github.com/isac-bench/isac_bench>

package main

import (
	"context"
	"io"
	"sync"

	"github.com/isac-bench/isac_bench/internal/llm"
)

type generator struct {
	cfg    *config
	client llm.Completer
	// out receives the readable questions if printing is requested.
	out   io.Writer
	stats stats
}

// process calls fn for every index of [0, n) with up to worker
// goroutines. It stops handing out indices when ctx is done.
func process(ctx context.Context, worker, n int, fn func(context.Context, int)) {
	indices := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < max(worker, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indices {
				fn(ctx, idx)
			}
		}()
	}
feed:
	for i := 0; i < n; i++ {
		select {
		case indices <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indices)
	wg.Wait()
}

func (g *generator) run(ctx context.Context, files []string) error {
	var err error
	if g.cfg.Kind == "tf" {
		err = g.generateTF(ctx, files)
	} else {
		err = g.generateMCQs(ctx, files)
	}
	g.stats.log()
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// progress prints "stage: done/total" lines roughly every tenth of a stage.
// step is safe for concurrent use by the stage's workers.
type progress struct {
	mu    sync.Mutex
	w     io.Writer
	stage string
	total int
	done  int
	every int
}

func newProgress(w io.Writer, stage string, total int) *progress {
	return &progress{w: w, stage: stage, total: total, every: max(total/10, 1)}
}

func (p *progress) step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.w != nil && (p.done%p.every == 0 || p.done == p.total) {
		fmt.Fprintf(p.w, "%s: %d/%d\n", p.stage, p.done, p.total)
	}
}

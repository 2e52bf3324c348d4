package intake

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchResult holds the outcomes of UploadBatch in declaration order.
type BatchResult struct {
	Outcomes []Outcome
	Failed   int
}

// Succeeded returns the number of items that did not fail.
func (r BatchResult) Succeeded() int {
	return len(r.Outcomes) - r.Failed
}

// Errors returns the failures of the batch.
func (r BatchResult) Errors() []Failure {
	var out []Failure
	for _, o := range r.Outcomes {
		if f, ok := o.Failure(); ok {
			out = append(out, f)
		}
	}
	return out
}

// UploadBatch processes every spec, continuing past failed items. Each
// submission is handed out at most once per batch: a later spec naming an
// already consumed field sees it as absent.
func (u *Uploader) UploadBatch(ctx context.Context, specs []Spec, src SubmissionSource) BatchResult {
	ctx = context.WithoutCancel(ctx)
	once := &consumingSource{src: src}
	outcomes := make([]Outcome, len(specs))

	if u.concurrency <= 1 {
		for i, spec := range specs {
			outcomes[i] = u.upload(ctx, spec, once)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(u.concurrency)
		for i, spec := range specs {
			g.Go(func() error {
				outcomes[i] = u.upload(ctx, spec, once)
				return nil
			})
		}
		_ = g.Wait()
	}

	result := BatchResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if !o.OK() {
			result.Failed++
		}
	}
	u.logger.Debug("batch finished", "items", len(specs), "failed", result.Failed)
	return result
}

// consumingSource hands out each field key once.
type consumingSource struct {
	src   SubmissionSource
	mu    sync.Mutex
	taken map[string]bool
}

func (c *consumingSource) Lookup(fieldKey string) (Submission, bool) {
	if c.src == nil {
		return Submission{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken[fieldKey] {
		return Submission{}, false
	}

	sub, ok := c.src.Lookup(fieldKey)
	if ok {
		if c.taken == nil {
			c.taken = make(map[string]bool)
		}
		c.taken[fieldKey] = true
	}
	return sub, ok
}

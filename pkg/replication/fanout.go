package replication

import (
	"context"
	"time"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/resilience"
)

// TargetFunc performs the operation against a single target node. A nil
// return counts as an acknowledgment; errors and deadline expiry count
// identically as non-acks.
type TargetFunc func(ctx context.Context, target string) error

// Result carries the aggregation outcome of one fan-out attempt.
type Result struct {
	Acks     int
	Required int
	Total    int
}

// Fanout is the networked counterpart of the replicator's local ack model:
// it issues one concurrent request per target, bounds the whole attempt by a
// deadline, and short-circuits as soon as the required-ack threshold is met
// or has become unreachable. The threshold comes from the caller's quorum
// policy, so reads and writes can be configured asymmetrically.
type Fanout struct {
	pool    *resilience.WorkerPool
	timeout time.Duration
}

// NewFanout creates a fan-out executor. A nil pool runs one goroutine per
// target; a pool bounds concurrency across attempts. A zero timeout relies
// solely on the caller's context deadline.
func NewFanout(pool *resilience.WorkerPool, timeout time.Duration) *Fanout {
	return &Fanout{pool: pool, timeout: timeout}
}

// Do runs one attempt against the targets, requiring need acknowledgments.
// The returned error is nil iff acks >= need within the deadline.
func (f *Fanout) Do(ctx context.Context, targets []string, need int, fn TargetFunc) (Result, error) {
	total := len(targets)
	res := Result{Required: need, Total: total}

	if total == 0 {
		return res, disterrors.Configurationf("no replication targets")
	}
	if need < 1 || need > total {
		return res, disterrors.Configurationf("required acks %d outside [1, %d]", need, total)
	}

	attemptCtx := ctx
	var cancel context.CancelFunc
	if f.timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, f.timeout)
	} else {
		attemptCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	resultChan := make(chan error, total)
	for _, target := range targets {
		node := target
		job := func() {
			err := fn(attemptCtx, node)
			select {
			case resultChan <- err:
			case <-attemptCtx.Done():
			}
		}

		if f.pool != nil {
			if err := f.pool.Submit(attemptCtx, job); err != nil {
				// A rejected submission is a failed target.
				select {
				case resultChan <- err:
				case <-attemptCtx.Done():
				}
			}
		} else {
			go job()
		}
	}

	failures := 0
	for i := 0; i < total; i++ {
		select {
		case err := <-resultChan:
			if err == nil {
				res.Acks++
				if res.Acks >= need {
					// Outstanding requests are cancelled via attemptCtx.
					return res, nil
				}
				continue
			}
			failures++
			if failures > total-need {
				return res, disterrors.Networkf("acks %d/%d", res.Acks, need)
			}
		case <-attemptCtx.Done():
			return res, disterrors.Networkf("acks %d/%d: %v", res.Acks, need, attemptCtx.Err())
		}
	}

	if res.Acks >= need {
		return res, nil
	}
	return res, disterrors.Networkf("acks %d/%d", res.Acks, need)
}

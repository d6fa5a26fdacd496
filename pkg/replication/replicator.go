// Package replication executes single logical writes against a replica set
// and decides success under a chosen consistency level. Quorum shortfall is
// reported immediately and never retried internally; retry and backoff are
// external policy.
package replication

import (
	"sync"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/idempotency"
	"github.com/anthanhphan/go-replication-core/pkg/quorum"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
)

// Replicator fans a command out to a target node set and applies the
// majority quorum rule. The per-node ack flag is a locally-visible stand-in
// for a real network round trip: a deployment replaces it with concurrent
// requests per target and records an ack only for successful responses
// within the deadline (see Fanout).
//
// C is the command type, ID the operation-identifier type used for
// idempotent replication.
type Replicator[C any, ID comparable] struct {
	mu       sync.Mutex
	ring     *shard.Ring
	nodes    []string
	acks     map[string]bool // absent means the node has not reported: ack
	guard    idempotency.Guard[ID]
	attempts int64
}

// NewReplicator creates a replicator over the given placement ring and
// participating node names.
func NewReplicator[C any, ID comparable](ring *shard.Ring, nodes []string) *Replicator[C, ID] {
	return &Replicator[C, ID]{
		ring:  ring,
		nodes: nodes,
		acks:  make(map[string]bool),
	}
}

// WithGuard attaches an idempotency guard consulted by ReplicateIdempotent.
func (r *Replicator[C, ID]) WithGuard(g idempotency.Guard[ID]) *Replicator[C, ID] {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guard = g
	return r
}

// SetNodeAck records the observed acknowledgment state for a node. Nodes
// that never reported default to acknowledging.
func (r *Replicator[C, ID]) SetNodeAck(node string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks[node] = ok
}

// Nodes returns the configured participant list.
func (r *Replicator[C, ID]) Nodes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Snapshot returns an independent clone of the placement ring. Cloning is
// the concurrency boundary: the snapshot can be routed against freely while
// the replicator's own ring keeps changing.
func (r *Replicator[C, ID]) Snapshot() *shard.Ring {
	return r.ring.Clone()
}

// Ring returns the live placement ring owned by the replicator.
func (r *Replicator[C, ID]) Ring() *shard.Ring {
	return r.ring
}

// Attempts reports how many replication attempts have executed. Used to
// verify that idempotent retries produce no second attempt.
func (r *Replicator[C, ID]) Attempts() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// Replicate targets the full configured node list.
func (r *Replicator[C, ID]) Replicate(command C, level quorum.Level) error {
	return r.ReplicateToNodes(r.Nodes(), command, level)
}

// ReplicateToNodes executes one replication attempt against a
// caller-supplied target set, typically the nodes returned by a ring lookup.
// Success requires at least RequiredAcks(len(targets), level)
// acknowledgments; shortfall yields a network-category error carrying both
// counts.
func (r *Replicator[C, ID]) ReplicateToNodes(targets []string, _ C, level quorum.Level) error {
	need := quorum.RequiredAcks(len(targets), level)

	r.mu.Lock()
	r.attempts++
	acked := 0
	for _, node := range targets {
		ok, reported := r.acks[node]
		if !reported || ok {
			acked++
		}
	}
	r.mu.Unlock()

	if acked >= need {
		return nil
	}
	return disterrors.Networkf("acks %d/%d", acked, need)
}

// ReplicateIdempotent gives the attempt at-most-once semantics for a given
// operation identifier: an id the guard has already seen returns success
// without re-executing, otherwise the replication runs and the id is
// recorded on success.
//
// The seen/replicate/record sequence is only as atomic as the guard makes
// it; guards shared by concurrent callers racing on one id must provide
// atomic test-and-set (see idempotency.Guard).
func (r *Replicator[C, ID]) ReplicateIdempotent(id ID, targets []string, command C, level quorum.Level) error {
	r.mu.Lock()
	guard := r.guard
	r.mu.Unlock()

	if guard != nil && guard.Seen(id) {
		return nil
	}

	err := r.ReplicateToNodes(targets, command, level)
	if err == nil && guard != nil {
		guard.Record(id)
	}
	return err
}

package replication

import (
	"errors"
	"strings"
	"testing"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/idempotency"
	"github.com/anthanhphan/go-replication-core/pkg/quorum"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
)

func newTestReplicator(nodes ...string) *Replicator[string, string] {
	ring := shard.NewRing(16)
	for _, n := range nodes {
		ring.AddNode(shard.Node{ID: n, Addr: n + ":8081"})
	}
	return NewReplicator[string, string](ring, nodes)
}

func TestReplicate_DefaultAcksSucceed(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")

	// All nodes ack by default: needs 2, gets 3.
	if err := r.Replicate("set x=1", quorum.Quorum); err != nil {
		t.Fatalf("Expected quorum success, got %v", err)
	}
}

func TestReplicate_AllFailedReportsCounts(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")
	r.SetNodeAck("n1", false)
	r.SetNodeAck("n2", false)
	r.SetNodeAck("n3", false)

	err := r.Replicate("set x=1", quorum.Quorum)
	if err == nil {
		t.Fatal("Expected quorum failure")
	}
	if !errors.Is(err, disterrors.ErrNetwork) {
		t.Errorf("Expected network category, got %v", err)
	}
	if !strings.Contains(err.Error(), "acks 0/2") {
		t.Errorf("Expected 'acks 0/2' in error, got %q", err.Error())
	}
}

func TestReplicate_PartialAcks(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")
	r.SetNodeAck("n3", false)

	// 2 of 3 still satisfies majority.
	if err := r.Replicate("cmd", quorum.Strong); err != nil {
		t.Fatalf("Expected success with 2/3 acks, got %v", err)
	}

	r.SetNodeAck("n2", false)
	if err := r.Replicate("cmd", quorum.Strong); err == nil {
		t.Fatal("Expected failure with 1/3 acks under majority")
	}

	// Eventual needs only the single surviving ack.
	if err := r.Replicate("cmd", quorum.Eventual); err != nil {
		t.Fatalf("Expected eventual success with 1 ack, got %v", err)
	}
}

func TestReplicateToNodes_SubsetFromRing(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3", "n4", "n5")

	// Target only the nodes a ring lookup selects.
	targets := shard.NodeIDs(r.Ring().ReplicasFor([]byte("user:42"), 3))
	if len(targets) != 3 {
		t.Fatalf("Expected 3 ring targets, got %d", len(targets))
	}
	if err := r.ReplicateToNodes(targets, "cmd", quorum.Quorum); err != nil {
		t.Fatalf("Expected subset replication to succeed, got %v", err)
	}

	for _, n := range targets {
		r.SetNodeAck(n, false)
	}
	err := r.ReplicateToNodes(targets, "cmd", quorum.Quorum)
	if err == nil || !strings.Contains(err.Error(), "acks 0/2") {
		t.Fatalf("Expected 'acks 0/2' failure, got %v", err)
	}
}

func TestReplicate_EmptyTargets(t *testing.T) {
	r := newTestReplicator()
	if err := r.Replicate("cmd", quorum.Quorum); err == nil {
		t.Fatal("Expected failure with zero targets")
	}
}

func TestReplicateIdempotent_SecondCallSkipsExecution(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")
	guard := idempotency.NewMemoryGuard[string]()
	r.WithGuard(guard)

	targets := []string{"n1", "n2", "n3"}

	if err := r.ReplicateIdempotent("op-1", targets, "cmd", quorum.Quorum); err != nil {
		t.Fatalf("First call should succeed, got %v", err)
	}
	if !guard.Seen("op-1") {
		t.Fatal("Successful replication must record the operation id")
	}
	if got := r.Attempts(); got != 1 {
		t.Fatalf("Expected 1 attempt after first call, got %d", got)
	}

	if err := r.ReplicateIdempotent("op-1", targets, "cmd", quorum.Quorum); err != nil {
		t.Fatalf("Second call should succeed without executing, got %v", err)
	}
	if got := r.Attempts(); got != 1 {
		t.Errorf("Second call must not re-execute: attempts = %d", got)
	}
}

func TestReplicateIdempotent_FailureNotRecorded(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")
	guard := idempotency.NewMemoryGuard[string]()
	r.WithGuard(guard)

	for _, n := range []string{"n1", "n2", "n3"} {
		r.SetNodeAck(n, false)
	}

	targets := []string{"n1", "n2", "n3"}
	if err := r.ReplicateIdempotent("op-2", targets, "cmd", quorum.Quorum); err == nil {
		t.Fatal("Expected quorum failure")
	}
	if guard.Seen("op-2") {
		t.Error("Failed replication must not record the operation id")
	}

	// Nodes recover; the retry executes for real.
	for _, n := range targets {
		r.SetNodeAck(n, true)
	}
	if err := r.ReplicateIdempotent("op-2", targets, "cmd", quorum.Quorum); err != nil {
		t.Fatalf("Retry after recovery should succeed, got %v", err)
	}
	if got := r.Attempts(); got != 2 {
		t.Errorf("Expected 2 attempts, got %d", got)
	}
}

func TestReplicateIdempotent_NoGuardAlwaysExecutes(t *testing.T) {
	r := newTestReplicator("n1", "n2", "n3")
	targets := []string{"n1", "n2", "n3"}

	for i := 0; i < 3; i++ {
		if err := r.ReplicateIdempotent("op-3", targets, "cmd", quorum.Eventual); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if got := r.Attempts(); got != 3 {
		t.Errorf("Without a guard every call executes: attempts = %d", got)
	}
}

func TestSnapshot_IndependentOfLiveRing(t *testing.T) {
	r := newTestReplicator("n1", "n2")

	snap := r.Snapshot()
	r.Ring().RemoveNode("n1")

	if snap.NodeCount() != 2 {
		t.Errorf("Snapshot must not see later mutation, got %d nodes", snap.NodeCount())
	}
	if r.Ring().NodeCount() != 1 {
		t.Errorf("Live ring should have 1 node, got %d", r.Ring().NodeCount())
	}
}

package port

import (
	"context"
	"errors"

	"github.com/anthanhphan/go-replication-core/pkg/shard"
)

var ErrKeyNotFound = errors.New("key not found")

//go:generate mockgen -destination=mocks/node_store_mock.go -package=mocks -source=port.go

// NodeWriter applies one replicated write to a single node. Resolving a node
// to an actual transport is the adapter's concern; the service layer only
// decides targets and thresholds.
type NodeWriter interface {
	WriteKey(ctx context.Context, node shard.Node, key string, value []byte) error
}

// NodeReader fetches one replica's copy of a key.
type NodeReader interface {
	ReadKey(ctx context.Context, node shard.Node, key string) ([]byte, error)
}

// NodeStore combines both directions of per-node access.
type NodeStore interface {
	NodeWriter
	NodeReader
}

// WriteReceipt describes the outcome of a coordinated write.
type WriteReceipt struct {
	Key      string        `json:"key"`
	OpID     string        `json:"op_id"`
	Shard    shard.ShardID `json:"shard"`
	Replicas []string      `json:"replicas"`
	Acks     int           `json:"acks"`
	Required int           `json:"required"`
	Replayed bool          `json:"replayed"`
}

// Move is one money movement inside a transfer saga.
type Move struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Coordinator is the business surface exposed over HTTP.
type Coordinator interface {
	// PutKey replicates a key write across the ring's replica set. A
	// non-empty opID makes the write idempotent across retries.
	PutKey(ctx context.Context, key string, value []byte, opID string) (WriteReceipt, error)

	// GetKey reads a key under the configured read consistency.
	GetKey(ctx context.Context, key string) ([]byte, error)

	// Transfer applies the moves as one all-or-nothing saga.
	Transfer(ctx context.Context, moves []Move) error

	// Balance returns an account balance, false when unknown.
	Balance(account string) (int64, bool)

	// Topology lists the ring's current membership.
	Topology() []shard.Node
}

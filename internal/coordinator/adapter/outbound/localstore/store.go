// Package localstore keeps one key-value map per node in process memory. It
// stands in for real storage nodes so a single coordinator binary can
// exercise placement, quorum writes, and reads end to end.
package localstore

import (
	"context"
	"sync"

	"github.com/anthanhphan/go-replication-core/internal/coordinator/port"
	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
	"github.com/anthanhphan/go-replication-core/pkg/shard"
)

type Store struct {
	mu    sync.RWMutex
	nodes map[string]map[string][]byte
}

// Ensure Store implements port.NodeStore.
var _ port.NodeStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{nodes: make(map[string]map[string][]byte)}
}

// WriteKey stores the value under the node's keyspace. Nodes not marked
// healthy refuse the write, which is how partial failure is simulated.
func (s *Store) WriteKey(ctx context.Context, node shard.Node, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return disterrors.Networkf("write to %s: %v", node.ID, err)
	}
	if node.Status != shard.NodeStatusHealthy {
		return disterrors.Networkf("node %s is %s", node.ID, node.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	keys, ok := s.nodes[node.ID]
	if !ok {
		keys = make(map[string][]byte)
		s.nodes[node.ID] = keys
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	keys[key] = buf
	return nil
}

// ReadKey returns the node's copy of the key, port.ErrKeyNotFound when the
// node holds no copy.
func (s *Store) ReadKey(ctx context.Context, node shard.Node, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, disterrors.Networkf("read from %s: %v", node.ID, err)
	}
	if node.Status != shard.NodeStatusHealthy {
		return nil, disterrors.Networkf("node %s is %s", node.ID, node.Status)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.nodes[node.ID][key]
	if !ok {
		return nil, port.ErrKeyNotFound
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	return buf, nil
}

// KeyCount returns how many keys a node holds.
func (s *Store) KeyCount(nodeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes[nodeID])
}

package shard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaolacci/murmur3"
)

const (
	// DefaultVNodesPerNode is the default number of virtual positions per
	// physical node. A higher number improves distribution balance and bounds
	// key movement on membership change, but increases ring size.
	DefaultVNodesPerNode = 256
)

// Ring is a consistent hashing ring with virtual nodes.
//
// Mutation (AddNode/RemoveNode) is serialized by an internal lock, and
// lookups take a read lock, so a shared Ring is safe for concurrent use.
// Callers that want lock-free reads should follow a copy-on-modify
// discipline instead: build a new snapshot with Clone, mutate it, then
// publish it and route against the immutable snapshot.
type Ring struct {
	mu            sync.RWMutex
	vnodes        []VNode // sorted by token
	nodes         map[string]Node
	vnodesPerNode int
}

// NewRing creates a ring with the given number of virtual positions per node.
// The count is fixed for the lifetime of the ring.
func NewRing(vnodesPerNode int) *Ring {
	if vnodesPerNode <= 0 {
		vnodesPerNode = DefaultVNodesPerNode
	}
	return &Ring{
		vnodes:        make([]VNode, 0),
		nodes:         make(map[string]Node),
		vnodesPerNode: vnodesPerNode,
	}
}

// AddNode inserts a physical node and its virtual positions.
// Re-adding a known node ID is idempotent: the hash inputs are identical, so
// the positions would simply overwrite; only node metadata is refreshed.
func (r *Ring) AddNode(node Node) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if node.Status == "" {
		node.Status = NodeStatusHealthy
	}

	if existing, exists := r.nodes[node.ID]; exists {
		// Keep vnode ownership stable by node ID while allowing metadata
		// refresh (e.g. address changes after restart).
		if existing.Addr != node.Addr || existing.Status != node.Status {
			r.nodes[node.ID] = node
		}
		return
	}

	r.nodes[node.ID] = node

	for i := 0; i < r.vnodesPerNode; i++ {
		token := r.hashKey(vnodeKey(node.ID, i))
		r.vnodes = append(r.vnodes, VNode{
			Token:  token,
			NodeID: node.ID,
		})
	}

	sort.Slice(r.vnodes, func(i, j int) bool {
		return r.vnodes[i].Token < r.vnodes[j].Token
	})
}

// SetNodeStatus updates the health of a node without moving its vnodes.
func (r *Ring) SetNodeStatus(nodeID string, status NodeStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if node, exists := r.nodes[nodeID]; exists {
		node.Status = status
		r.nodes[nodeID] = node
	}
}

// RemoveNode removes a physical node and all of its virtual positions.
// After removal no lookup returns the node.
func (r *Ring) RemoveNode(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[nodeID]; !exists {
		return
	}

	delete(r.nodes, nodeID)

	newVNodes := make([]VNode, 0, len(r.vnodes))
	for _, vn := range r.vnodes {
		if vn.NodeID != nodeID {
			newVNodes = append(newVNodes, vn)
		}
	}
	r.vnodes = newVNodes
}

// Route returns the node that owns the given key. The second return value is
// false iff the ring holds zero positions.
func (r *Ring) Route(key []byte) (Node, bool) {
	return r.RouteToken(r.hashData(key))
}

// RouteToken returns the node owning the first virtual position at or after
// the token, wrapping around to the smallest position when the token is
// larger than all stored positions.
func (r *Ring) RouteToken(token uint64) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 {
		return Node{}, false
	}

	idx := sort.Search(len(r.vnodes), func(i int) bool {
		return r.vnodes[i].Token >= token
	})
	if idx == len(r.vnodes) {
		idx = 0
	}

	return r.nodes[r.vnodes[idx].NodeID], true
}

// Nodes returns all physical nodes currently registered on the ring.
func (r *Ring) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeCount returns the number of registered physical nodes.
func (r *Ring) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// Clone returns an independent copy of the ring. The clone shares no state
// with the original, so one side can keep mutating while the other routes.
func (r *Ring) Clone() *Ring {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &Ring{
		vnodes:        make([]VNode, len(r.vnodes)),
		nodes:         make(map[string]Node, len(r.nodes)),
		vnodesPerNode: r.vnodesPerNode,
	}
	copy(c.vnodes, r.vnodes)
	for id, n := range r.nodes {
		c.nodes[id] = n
	}
	return c
}

func vnodeKey(nodeID string, index int) string {
	return fmt.Sprintf("%s-%d", nodeID, index)
}

// hashKey generates a token for a string key.
// Murmur3 for distribution quality at low cost.
func (r *Ring) hashKey(key string) uint64 {
	return r.hashData([]byte(key))
}

func (r *Ring) hashData(data []byte) uint64 {
	return murmur3.Sum64(data)
}

package shard

import (
	"sort"
)

// ReplicasFor returns up to rf distinct physical nodes responsible for the
// key, in ring encounter order starting at the key's position. The walk is
// circular and stops when rf distinct nodes are found or the ring is
// exhausted. An empty ring or rf <= 0 yields an empty result.
//
// For a fixed membership the result is a pure function of the key.
func (r *Ring) ReplicasFor(key []byte, rf int) []Node {
	return r.ReplicasForToken(r.hashData(key), rf)
}

// ReplicasForToken is ReplicasFor starting from a precomputed token.
func (r *Ring) ReplicasForToken(token uint64, rf int) []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 || rf <= 0 {
		return nil
	}

	idx := sort.Search(len(r.vnodes), func(i int) bool {
		return r.vnodes[i].Token >= token
	})
	if idx == len(r.vnodes) {
		idx = 0
	}

	replicas := make([]Node, 0, rf)
	seen := make(map[string]bool, rf)

	// Walk the ring clockwise collecting distinct owners.
	for i := 0; i < len(r.vnodes) && len(replicas) < rf; i++ {
		vn := r.vnodes[(idx+i)%len(r.vnodes)]
		if !seen[vn.NodeID] {
			seen[vn.NodeID] = true
			replicas = append(replicas, r.nodes[vn.NodeID])
		}
	}

	return replicas
}

// NodeIDs extracts the ID list from a replica set, in the same order.
// Convenience for callers that address replicas purely by identity.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

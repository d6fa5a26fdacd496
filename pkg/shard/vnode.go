package shard

import (
	"fmt"
)

// Node represents a physical replica node in the cluster.
// At this layer nodes are identified purely by opaque string ID; resolving
// an ID to a transport handle is the caller's responsibility.
type Node struct {
	ID     string     `json:"id"`
	Addr   string     `json:"addr"`
	Status NodeStatus `json:"status"`
}

type NodeStatus string

const (
	NodeStatusHealthy   NodeStatus = "healthy"
	NodeStatusUnhealthy NodeStatus = "unhealthy"
	NodeStatusLeft      NodeStatus = "left"
)

func (n Node) String() string {
	return fmt.Sprintf("%s@%s[%s]", n.ID, n.Addr, n.Status)
}

// VNode is a virtual position on the ring. Each physical node owns a fixed
// number of virtual positions derived from hashing (nodeID, index).
type VNode struct {
	Token  uint64
	NodeID string
}

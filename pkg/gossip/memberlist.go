// Package gossip maintains placement ring membership from cluster
// join/leave events. Failure detection itself belongs to memberlist; this
// adapter only translates membership changes into ring mutations.
package gossip

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/anthanhphan/go-replication-core/pkg/shard"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/hashicorp/memberlist"
)

// Adapter bridges memberlist events onto a shard.Ring.
type Adapter struct {
	list *memberlist.Memberlist
	conf *memberlist.Config
	ring *shard.Ring

	nodeID     string
	addr       string
	port       int
	serverPort int
}

var (
	_ memberlist.Delegate      = (*Adapter)(nil)
	_ memberlist.EventDelegate = (*Adapter)(nil)
)

// NewAdapter creates a membership adapter and self-registers the local node
// on the ring. serverPort is the port peers use to reach this node's
// inter-node endpoint (health probes included), carried as gossip metadata.
func NewAdapter(nodeID string, bindAddr string, bindPort int, serverPort int, ring *shard.Ring) (*Adapter, error) {
	config := memberlist.DefaultLANConfig()
	config.Name = nodeID
	config.BindAddr = bindAddr
	config.BindPort = bindPort
	config.AdvertisePort = bindPort
	config.LogOutput = io.Discard

	adapter := &Adapter{
		conf:       config,
		ring:       ring,
		nodeID:     nodeID,
		addr:       bindAddr,
		port:       bindPort,
		serverPort: serverPort,
	}

	config.Events = adapter
	config.Delegate = adapter

	list, err := memberlist.Create(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create memberlist: %w", err)
	}
	adapter.list = list

	ring.AddNode(adapter.LocalNode())
	return adapter, nil
}

// Join joins the cluster using seed nodes.
func (a *Adapter) Join(seeds []string) error {
	if len(seeds) > 0 {
		if _, err := a.list.Join(seeds); err != nil {
			return fmt.Errorf("failed to join cluster: %w", err)
		}
	}
	return nil
}

// Leave gracefully leaves the cluster and shuts down gossip.
func (a *Adapter) Leave() error {
	if err := a.list.Leave(5 * time.Second); err != nil {
		return err
	}
	return a.list.Shutdown()
}

// NodeMeta returns the local node metadata.
func (a *Adapter) NodeMeta(limit int) []byte {
	data, err := json.Marshal(map[string]interface{}{
		"server_port": a.serverPort,
	})
	if err != nil {
		logger.Warnw("failed to marshal gossip node meta", "error", err.Error())
		return nil
	}
	return data
}

// NotifyMsg, GetBroadcasts, LocalState, MergeRemoteState are unused here but
// required by Delegate.
func (a *Adapter) NotifyMsg([]byte)                           {}
func (a *Adapter) GetBroadcasts(overhead, limit int) [][]byte { return nil }
func (a *Adapter) LocalState(join bool) []byte                { return nil }
func (a *Adapter) MergeRemoteState(buf []byte, join bool)     {}

// Members returns the current cluster members as ring nodes.
func (a *Adapter) Members() []shard.Node {
	members := a.list.Members()
	nodes := make([]shard.Node, 0, len(members))
	for _, m := range members {
		nodes = append(nodes, memberToNode(m))
	}
	return nodes
}

// LocalNode returns the local node info.
func (a *Adapter) LocalNode() shard.Node {
	addr := a.serverHost()
	return shard.Node{
		ID:     a.nodeID,
		Addr:   net.JoinHostPort(addr, strconv.Itoa(a.serverPort)),
		Status: shard.NodeStatusHealthy,
	}
}

// NotifyJoin registers a joining node on the ring.
func (a *Adapter) NotifyJoin(node *memberlist.Node) {
	n := memberToNode(node)
	logger.Infow("Node joined", "id", n.ID, "addr", n.Addr)
	a.ring.AddNode(n)
}

// NotifyLeave marks a departed node unhealthy without moving its vnodes;
// removal is an operator decision, not a gossip event.
func (a *Adapter) NotifyLeave(node *memberlist.Node) {
	logger.Infow("Node left", "id", node.Name)
	a.ring.SetNodeStatus(node.Name, shard.NodeStatusUnhealthy)
}

// NotifyUpdate re-registers the node to refresh metadata.
func (a *Adapter) NotifyUpdate(node *memberlist.Node) {
	a.NotifyJoin(node)
}

func memberToNode(m *memberlist.Node) shard.Node {
	serverPort := decodeMeta(m.Meta)
	addr := m.Addr.String()
	if serverPort > 0 {
		addr = net.JoinHostPort(addr, strconv.Itoa(serverPort))
	} else {
		addr = net.JoinHostPort(addr, strconv.Itoa(int(m.Port)))
	}
	return shard.Node{
		ID:     m.Name,
		Addr:   addr,
		Status: shard.NodeStatusHealthy,
	}
}

func decodeMeta(meta []byte) int {
	if len(meta) == 0 {
		return 0
	}
	var m struct {
		ServerPort int `json:"server_port"`
	}
	if err := json.Unmarshal(meta, &m); err != nil {
		logger.Warnw("failed to decode node metadata", "error", err.Error())
		return 0
	}
	return m.ServerPort
}

func (a *Adapter) serverHost() string {
	if a.addr == "" {
		return a.addr
	}
	if ip := net.ParseIP(a.addr); ip == nil || !ip.IsUnspecified() {
		return a.addr
	}

	if a.list == nil || a.list.LocalNode() == nil {
		return a.addr
	}

	adv := a.list.LocalNode().Addr.String()
	if adv == "" {
		return a.addr
	}
	if ip := net.ParseIP(adv); ip != nil && ip.IsUnspecified() {
		return a.addr
	}
	return adv
}

package shard

import (
	"github.com/spaolacci/murmur3"
)

// ShardID identifies one coarse, fixed-count partition of the key space.
// It is orthogonal to ring-based elastic placement.
type ShardID uint64

// Partitioner maps keys onto a fixed number of shards by hashing.
// It does not interact with the ring's node set: systems that prefer fixed
// shard counts over elastic membership use it as an alternative placement
// scheme.
type Partitioner struct {
	shardCount uint64
}

// NewPartitioner creates a partitioner over the given shard count.
func NewPartitioner(shardCount uint64) *Partitioner {
	if shardCount == 0 {
		shardCount = 1
	}
	return &Partitioner{shardCount: shardCount}
}

// ShardCount returns the fixed number of shards.
func (p *Partitioner) ShardCount() uint64 {
	return p.shardCount
}

// ShardOf returns the shard for a key. Deterministic, no error states.
func (p *Partitioner) ShardOf(key []byte) ShardID {
	return ShardID(murmur3.Sum64(key) % p.shardCount)
}

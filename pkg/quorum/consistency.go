// Package quorum translates consistency intent into numeric acknowledgment
// thresholds. Policies here are pure arithmetic: they never consult network
// state. Choosing policy pairs that satisfy R + W > N for read-after-write
// guarantees is the caller's responsibility.
package quorum

import (
	"strings"

	"github.com/anthanhphan/go-replication-core/pkg/disterrors"
)

// Level describes the durability/visibility contract requested by a caller.
type Level int

const (
	// Majority group: requires floor(total/2)+1 acknowledgments.
	Strong Level = iota
	Linearizable
	Quorum
	Sequential
	Causal
	Session
	MonotonicRead
	MonotonicWrite
	ReadYourWrites
	MonotonicReads
	MonotonicWrites
	WritesFollowReads
	CausalConsistency

	// Single-ack group: requires exactly one acknowledgment.
	Eventual
	StrongEventual
)

var levelNames = map[Level]string{
	Strong:            "strong",
	Linearizable:      "linearizable",
	Quorum:            "quorum",
	Sequential:        "sequential",
	Causal:            "causal",
	Session:           "session",
	MonotonicRead:     "monotonic_read",
	MonotonicWrite:    "monotonic_write",
	ReadYourWrites:    "read_your_writes",
	MonotonicReads:    "monotonic_reads",
	MonotonicWrites:   "monotonic_writes",
	WritesFollowReads: "writes_follow_reads",
	CausalConsistency: "causal_consistency",
	Eventual:          "eventual",
	StrongEventual:    "strong_eventual",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel resolves a config string ("quorum", "eventual", ...) to a Level.
func ParseLevel(s string) (Level, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for level, name := range levelNames {
		if name == needle {
			return level, nil
		}
	}
	return Quorum, disterrors.Configurationf("unknown consistency level %q", s)
}

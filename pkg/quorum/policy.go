package quorum

// Policy maps (total replicas, consistency level) to the number of
// acknowledgments required for an operation to be considered successful.
type Policy interface {
	RequiredAcks(total int, level Level) int
}

// ReadPolicy and WritePolicy are independently resolvable so a caller can
// pair, e.g., a weak read with a strong write.
type ReadPolicy interface {
	RequiredReadAcks(total int, level Level) int
}

type WritePolicy interface {
	RequiredWriteAcks(total int, level Level) int
}

// RequiredAcks is the default majority rule: floor(total/2)+1 for the
// majority level group, exactly 1 for the eventual group. The result lies in
// [1, total] whenever total >= 1; calling with total == 0 is a caller error
// and yields a threshold no acknowledgment count can meet.
func RequiredAcks(total int, level Level) int {
	switch level {
	case Eventual, StrongEventual:
		return 1
	default:
		return (total / 2) + 1
	}
}

// Majority applies the default rule for reads and writes alike.
type Majority struct{}

func (Majority) RequiredAcks(total int, level Level) int {
	return RequiredAcks(total, level)
}

func (Majority) RequiredReadAcks(total int, level Level) int {
	return RequiredAcks(total, level)
}

func (Majority) RequiredWriteAcks(total int, level Level) int {
	return RequiredAcks(total, level)
}

// One requires a single acknowledgment regardless of level. Pairing it with
// a majority write gives cheap reads at the cost of read-after-write
// guarantees.
type One struct{}

func (One) RequiredAcks(total int, level Level) int      { return 1 }
func (One) RequiredReadAcks(total int, level Level) int  { return 1 }
func (One) RequiredWriteAcks(total int, level Level) int { return 1 }

// Composite binds a read policy and a write policy at compile time. With
// zero-sized policy types the pairing itself is zero-sized and resolves
// without runtime branching.
type Composite[R ReadPolicy, W WritePolicy] struct {
	read  R
	write W
}

// NewComposite builds the pairing from the zero values of its policy types.
func NewComposite[R ReadPolicy, W WritePolicy]() Composite[R, W] {
	var c Composite[R, W]
	return c
}

func (c Composite[R, W]) RequiredRead(total int, level Level) int {
	return c.read.RequiredReadAcks(total, level)
}

func (c Composite[R, W]) RequiredWrite(total int, level Level) int {
	return c.write.RequiredWriteAcks(total, level)
}

var (
	_ Policy      = Majority{}
	_ ReadPolicy  = Majority{}
	_ WritePolicy = Majority{}
	_ Policy      = One{}
)

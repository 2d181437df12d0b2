package policy

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates the supported replacement policies.
type Kind uint8

const (
	// None caches nothing.
	None Kind = iota
	// FIFO evicts in insertion order.
	FIFO
	// LRU evicts the least recently used key.
	LRU
	// LFU evicts the least frequently used key (oldest among ties).
	LFU
	// MFU evicts the most frequently used key (oldest among ties).
	// Useful when a workload sweeps a dataset once: keys already read many
	// times are the least likely to be needed again.
	MFU
)

var kindNames = [...]string{
	None: "none",
	FIFO: "fifo",
	LRU:  "lru",
	LFU:  "lfu",
	MFU:  "mfu",
}

// String returns the lower-case policy name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds lists every supported policy.
func Kinds() []Kind { return []Kind{None, FIFO, LRU, LFU, MFU} }

// ParseKind maps a case-insensitive policy name to its Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return None, errors.Wrapf(ErrUnsupportedPolicy, "name %q", name)
}

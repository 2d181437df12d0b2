package util

import (
	"math/bits"
	"runtime"
)

// maxAutoShards caps the automatic shard count.
const maxAutoShards = 256

// ShardCount normalizes a requested shard count: n <= 0 picks
// NextPow2(2*GOMAXPROCS) clamped to 256, anything else is rounded up to the
// next power of two so ShardIndex can mask.
func ShardCount(n int) int {
	if n <= 0 {
		return int(min(NextPow2(uint64(max(runtime.GOMAXPROCS(0), 1)*2)), maxAutoShards))
	}
	if IsPowerOfTwo(uint64(n)) {
		return n
	}
	return int(NextPow2(uint64(n)))
}

// AutoShardsFor clamps an automatic shard count so every shard gets at least
// one slot of a positive capacity: the result is a power of two <= capacity.
func AutoShardsFor(shards, capacity int) int {
	if capacity <= 0 || shards <= capacity {
		return shards
	}
	return 1 << (bits.Len64(uint64(capacity)) - 1)
}

// ShardIndex maps a 64-bit hash to a shard index. shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	return int(hash & uint64(shards-1))
}

// SplitCapacity divides a total capacity across shards, rounding up.
// Negative (unbounded) and zero (disabled) capacities are passed through.
func SplitCapacity(total, shards int) int {
	if total <= 0 || shards <= 1 {
		return total
	}
	return (total + shards - 1) / shards
}

// IsPowerOfTwo reports whether x is a power of two (> 0).
func IsPowerOfTwo(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// NextPow2 returns the smallest power of two >= x (1 for x == 0).
// Results that would overflow 64 bits are clamped to 1<<63.
func NextPow2(x uint64) uint64 {
	switch {
	case x <= 1:
		return 1
	case x > 1<<63:
		return 1 << 63
	}
	return 1 << bits.Len64(x-1)
}

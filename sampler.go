// Single-pass fixed-size reservoir sampling (Algorithm L)

package main

import (
	"math"
)

// Random is the source of randomness used by the sampler. *math/rand.Rand
// satisfies it
type Random interface {
	Float64() float64
	Intn(n int) int
}

// Reservoir keeps a uniform random sample of at most k items from a stream of
// unknown length. Each offered item is equally likely to end up in the sample.
// After the pool is full, the number of items skipped before the next
// replacement is drawn directly, so the expected number of replacements grows
// as k*ln(n/k). The pool grows with the items offered, so a large k costs
// nothing until the stream is that long
type Reservoir[T any] struct {
	pool []T
	k    int
	rng  Random

	seen uint64  // items offered so far
	next uint64  // stream index of the next replacement
	w    float64 // Algorithm L running weight
}

func NewReservoir[T any](k int, rng Random) *Reservoir[T] {
	if k < 0 {
		k = 0
	}
	return &Reservoir[T]{k: k, rng: rng}
}

// Cap returns the target sample size
func (r *Reservoir[T]) Cap() int { return r.k }

// Seen returns the number of items offered so far
func (r *Reservoir[T]) Seen() uint64 { return r.seen }

// Offer presents the next stream item to the sampler
func (r *Reservoir[T]) Offer(item T) {
	k := uint64(r.k)
	i := r.seen
	r.seen++

	if k == 0 {
		return
	}
	if i < k {
		r.pool = append(r.pool, item)
		if i == k-1 {
			r.w = math.Exp(math.Log(r.uniform()) / float64(k))
			r.advance(i)
		}
		return
	}
	if i != r.next {
		return
	}

	r.pool[r.rng.Intn(len(r.pool))] = item
	r.w *= math.Exp(math.Log(r.uniform()) / float64(k))
	r.advance(i)
}

// advance draws the geometric skip from stream index i to the next replacement
func (r *Reservoir[T]) advance(i uint64) {
	skip := math.Floor(math.Log(r.uniform()) / math.Log(1-r.w))
	if math.IsNaN(skip) || math.IsInf(skip, 0) || skip >= math.MaxInt64 {
		// w underflowed towards zero: no further replacement is reachable
		r.next = math.MaxUint64
		return
	}
	r.next = i + uint64(skip) + 1
}

// uniform returns a value in the open interval (0, 1)
func (r *Reservoir[T]) uniform() float64 {
	for {
		if u := r.rng.Float64(); u > 0 {
			return u
		}
	}
}

// Items returns the sampled items. When fewer than Cap items were offered, it
// holds exactly those items in stream order
func (r *Reservoir[T]) Items() []T {
	if r.pool == nil {
		return []T{}
	}
	return r.pool
}

// Package rpc chooses which JSON-RPC endpoint a command talks to.
package rpc

import (
	"errors"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
)

// Endpoint is one probed RPC endpoint.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Picker selects an endpoint according to its algorithm. The round-robin
// cursor is kept per Picker.
type Picker struct {
	algo    Algorithm
	mu      sync.Mutex
	rrIndex int
}

// NewPicker creates a Picker; an empty algorithm means fastest.
func NewPicker(algo Algorithm) *Picker {
	if algo == "" {
		algo = AlgorithmFastest
	}
	return &Picker{algo: algo}
}

// Pick selects one endpoint from the probed list.
func (p *Picker) Pick(endpoints []Endpoint) (Endpoint, error) {
	switch p.algo {
	case AlgorithmFailover:
		for _, e := range endpoints {
			if e.Healthy() {
				return e, nil
			}
		}
		return Endpoint{}, ErrNoHealthyRPC
	case AlgorithmRoundRobin:
		fresh := freshEndpoints(endpoints)
		if len(fresh) == 0 {
			return Endpoint{}, ErrNoHealthyRPC
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		e := fresh[p.rrIndex%len(fresh)]
		p.rrIndex++
		return e, nil
	default:
		fresh := freshEndpoints(endpoints)
		if len(fresh) == 0 {
			return Endpoint{}, ErrNoHealthyRPC
		}
		best := fresh[0]
		for _, e := range fresh[1:] {
			if e.Latency < best.Latency {
				best = e
			}
		}
		return best, nil
	}
}

// freshEndpoints keeps healthy endpoints within staleBlockThreshold of the
// highest block seen, preserving order.
func freshEndpoints(endpoints []Endpoint) []Endpoint {
	var top uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > top {
			top = e.BlockNumber
		}
	}
	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		if !e.Healthy() {
			continue
		}
		if top-e.BlockNumber > staleBlockThreshold {
			continue
		}
		out = append(out, e)
	}
	return out
}

package rpc

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Mohsinsiddi/coinx/internal/chain"
)

// Probe pings every URL in parallel and returns one Endpoint per URL, in
// input order.
func Probe(ctx context.Context, urls []string) []Endpoint {
	out := make([]Endpoint, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			latency, block, err := chain.NewEVMClient(u).Ping(ctx)
			out[i] = Endpoint{URL: u, Latency: latency, BlockNumber: block, Err: err}
		}()
	}
	wg.Wait()
	return out
}

// Best returns the endpoint URL chosen by algo. A single URL is returned
// without probing.
func Best(ctx context.Context, urls []string, algo Algorithm, log *slog.Logger) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	endpoints := Probe(ctx, urls)
	for _, e := range endpoints {
		if e.Err != nil {
			log.Debug("rpc probe failed", slog.String("url", e.URL), slog.Any("err", e.Err))
			continue
		}
		log.Debug("rpc probe", slog.String("url", e.URL),
			slog.Duration("latency", e.Latency), slog.Uint64("block", e.BlockNumber))
	}

	winner, err := NewPicker(algo).Pick(endpoints)
	if err != nil {
		return "", err
	}
	log.Debug("rpc selected", slog.String("url", winner.URL), slog.String("algorithm", string(algo)))
	return winner.URL, nil
}

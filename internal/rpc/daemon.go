package rpc

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/rpcclient"

	"github.com/tapyruslabs/chaintools/internal/config"
	"github.com/tapyruslabs/chaintools/internal/logger"
)

// Daemon wraps the node JSON-RPC client. Calls go over HTTP POST with
// cookie authentication; the cookie is re-read by the client whenever
// the node rotates it.
type Daemon struct {
	client  *rpcclient.Client
	connCfg *rpcclient.ConnConfig
	log     *logger.Logger
}

// NewDaemon creates a client for the node configured in cfg.
func NewDaemon(cfg *config.Config, log *logger.Logger) (*Daemon, error) {
	cookiePath, err := cfg.CookiePath()
	if err != nil {
		return nil, err
	}

	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.NodeAddr(),
		CookiePath:   cookiePath,
		HTTPPostMode: true,
		DisableTLS:   true,
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create node RPC client: %w", err)
	}

	log.Debug("node RPC client created", map[string]string{
		"host":   connCfg.Host,
		"cookie": cookiePath,
	})

	return &Daemon{
		client:  client,
		connCfg: connCfg,
		log:     log,
	}, nil
}

// Close shuts down the RPC client.
func (d *Daemon) Close() {
	d.client.Shutdown()
}

// RawMempool returns the ids of every pending transaction. One call,
// non-verbose.
func (d *Daemon) RawMempool() ([]string, error) {
	hashes, err := d.client.GetRawMempool()
	if err != nil {
		return nil, fmt.Errorf("getrawmempool: %w", err)
	}
	txids := make([]string, len(hashes))
	for i, h := range hashes {
		txids[i] = h.String()
	}
	return txids, nil
}

// MempoolEntries fetches the mempool metadata for every given txid in a
// single batched round trip. Pools run to tens of thousands of entries,
// so per-call latency on a request loop would dominate the whole run.
// The result slice is aligned with txids.
func (d *Daemon) MempoolEntries(txids []string) ([]*btcjson.GetMempoolEntryResult, error) {
	if len(txids) == 0 {
		return nil, nil
	}

	batch, err := rpcclient.NewBatch(d.connCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create batch RPC client: %w", err)
	}
	defer batch.Shutdown()

	futures := make([]rpcclient.FutureGetMempoolEntryResult, len(txids))
	for i, txid := range txids {
		futures[i] = batch.GetMempoolEntryAsync(txid)
	}
	if err := batch.Send(); err != nil {
		return nil, fmt.Errorf("getmempoolentry batch: %w", err)
	}

	entries := make([]*btcjson.GetMempoolEntryResult, len(txids))
	for i, future := range futures {
		entry, err := future.Receive()
		if err != nil {
			return nil, fmt.Errorf("getmempoolentry %s: %w", txids[i], err)
		}
		entries[i] = entry
	}
	return entries, nil
}

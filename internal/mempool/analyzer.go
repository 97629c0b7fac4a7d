// Package mempool derives the fee-rate distribution of a mempool
// snapshot.
package mempool

import (
	"math"
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/btcjson"

	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/models"
)

// NodeClient lists the mempool and fetches entry metadata. Implemented
// by rpc.Daemon.
type NodeClient interface {
	RawMempool() ([]string, error)
	MempoolEntries(txids []string) ([]*btcjson.GetMempoolEntryResult, error)
}

// Analyzer builds fee distributions from live node snapshots.
type Analyzer struct {
	node      NodeClient
	coinRatio float64
	log       *logger.Logger
}

// NewAnalyzer creates an Analyzer. coinRatio converts the fee field
// from the node's display unit to tapyrus (1e8 on the stock chain).
func NewAnalyzer(node NodeClient, coinRatio float64, log *logger.Logger) *Analyzer {
	return &Analyzer{
		node:      node,
		coinRatio: coinRatio,
		log:       log,
	}
}

// Snapshot takes the current mempool and reduces it to a fee
// distribution. Exactly two node round trips: the id listing and one
// batched metadata fetch. Zero-vsize entries carry no fee-rate
// information and are skipped with a log line rather than sinking the
// whole analysis.
func (a *Analyzer) Snapshot() (*models.FeeDistribution, error) {
	txids, err := a.node.RawMempool()
	if err != nil {
		return nil, err
	}
	a.log.Debug("mempool listed", map[string]string{"transactions": strconv.Itoa(len(txids))})

	raw, err := a.node.MempoolEntries(txids)
	if err != nil {
		return nil, err
	}

	entries := make([]models.MempoolEntry, 0, len(raw))
	for i, r := range raw {
		vsize := int64(r.VSize)
		if vsize == 0 {
			// Older nodes report the field as "size".
			vsize = int64(r.Size)
		}
		if vsize == 0 {
			a.log.Warn("skipping zero-size mempool entry", map[string]string{"txid": txids[i]})
			continue
		}
		fee := int64(math.Round(r.Fee * a.coinRatio))
		entries = append(entries, models.MempoolEntry{
			TxID:    txids[i],
			Fee:     fee,
			VSize:   vsize,
			FeeRate: float64(fee) / float64(vsize),
		})
	}

	return BuildDistribution(entries), nil
}

// BuildDistribution sorts entries by descending fee rate and computes
// the running virtual-size total. The sort is stable so entries with
// equal rates keep their fetch order.
func BuildDistribution(entries []models.MempoolEntry) *models.FeeDistribution {
	sorted := make([]models.MempoolEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FeeRate > sorted[j].FeeRate
	})

	cumulative := make([]int64, len(sorted))
	var total int64
	for i, e := range sorted {
		total += e.VSize
		cumulative[i] = total
	}

	return &models.FeeDistribution{
		Entries:         sorted,
		CumulativeVSize: cumulative,
	}
}

package models

// MempoolEntry represents one pending transaction in the node mempool.
// Fee is held in tapyrus (the smallest on-chain unit); FeeRate is derived
// as Fee / VSize and never transmitted by the node.
type MempoolEntry struct {
	TxID    string
	Fee     int64
	VSize   int64
	FeeRate float64
}

// FeeDistribution is the fee-rate profile of a mempool snapshot: entries
// sorted by descending fee rate plus the running virtual-size total
// aligned index-for-index with them. CumulativeVSize[i] is the amount of
// chain space taken by transactions paying at least Entries[i].FeeRate.
type FeeDistribution struct {
	Entries         []MempoolEntry
	CumulativeVSize []int64
}

// TotalVSize returns the virtual size of the whole snapshot.
func (d *FeeDistribution) TotalVSize() int64 {
	if len(d.CumulativeVSize) == 0 {
		return 0
	}
	return d.CumulativeVSize[len(d.CumulativeVSize)-1]
}

// Rates returns the fee-rate sequence in sorted (non-increasing) order.
func (d *FeeDistribution) Rates() []float64 {
	rates := make([]float64, len(d.Entries))
	for i, e := range d.Entries {
		rates[i] = e.FeeRate
	}
	return rates
}

// CumulativeMegabytes returns the cumulative size sequence scaled to
// megabytes, the unit the chart sink draws without further conversion.
func (d *FeeDistribution) CumulativeMegabytes() []float64 {
	mb := make([]float64, len(d.CumulativeVSize))
	for i, v := range d.CumulativeVSize {
		mb[i] = float64(v) / 1e6
	}
	return mb
}

package models

// Balance is the indexer's answer to a scripthash balance query, in
// tapyrus. The split mirrors the wire reply: Confirmed covers outputs in
// sealed blocks, Unconfirmed covers mempool deltas and may be negative.
type Balance struct {
	Confirmed   int64 `json:"confirmed"`
	Unconfirmed int64 `json:"unconfirmed"`
}

// Total returns the balance including unconfirmed deltas.
func (b *Balance) Total() int64 {
	return b.Confirmed + b.Unconfirmed
}

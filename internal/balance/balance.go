// Package balance resolves addresses to the balances the indexer holds
// for their locking scripts.
package balance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"

	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/models"
)

// ErrInvalidAddress marks an address that cannot be decoded or belongs
// to a different network.
var ErrInvalidAddress = errors.New("balance: invalid address")

// ScriptResolver turns an address into its locking script.
type ScriptResolver interface {
	ResolveScript(address string) ([]byte, error)
}

// BalanceClient answers scripthash balance queries. Implemented by
// electrum.Client.
type BalanceClient interface {
	GetBalance(scriptHash string) (*models.Balance, error)
}

// NetworkResolver resolves addresses under a fixed set of chain
// parameters, so a testnet address fed to a production run fails
// instead of querying a key that can never match.
type NetworkResolver struct {
	params *chaincfg.Params
}

// NewNetworkResolver creates a resolver for the given network.
func NewNetworkResolver(params *chaincfg.Params) *NetworkResolver {
	return &NetworkResolver{params: params}
}

// ResolveScript decodes the address and builds its pay-to-address
// locking script.
func (r *NetworkResolver) ResolveScript(address string) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, r.params)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAddress, "%s: %s", address, err)
	}
	if !addr.IsForNet(r.params) {
		return nil, errors.Wrapf(ErrInvalidAddress, "%s is not a %s address", address, r.params.Name)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidAddress, "%s: %s", address, err)
	}
	return script, nil
}

// ScriptHashKey derives the indexer lookup key for a locking script:
// the hex encoding of the byte-reversed SHA-256 of the script. The
// reversal is part of the lookup protocol; without it the query targets
// a key the indexer never wrote.
func ScriptHashKey(script []byte) string {
	digest := sha256.Sum256(script)
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	return hex.EncodeToString(digest[:])
}

// Reporter runs one balance lookup per address and writes one report
// line each.
type Reporter struct {
	resolver ScriptResolver
	client   BalanceClient
	out      io.Writer
	log      *logger.Logger
}

// NewReporter creates a Reporter writing report lines to out.
func NewReporter(resolver ScriptResolver, client BalanceClient, out io.Writer, log *logger.Logger) *Reporter {
	return &Reporter{
		resolver: resolver,
		client:   client,
		out:      out,
		log:      log,
	}
}

// Lookup resolves one address to its balance. Each call is a single
// synchronous round trip.
func (r *Reporter) Lookup(address string) (*models.Balance, error) {
	script, err := r.resolver.ResolveScript(address)
	if err != nil {
		return nil, err
	}
	key := ScriptHashKey(script)
	r.log.Debug("querying scripthash", map[string]string{
		"address":    address,
		"scripthash": key,
	})
	return r.client.GetBalance(key)
}

// Report looks up every address in order and prints one line per
// success. A failing address is reported and the run continues; the
// returned error aggregates all failures so the caller still exits
// non-zero.
func (r *Reporter) Report(addresses []string) error {
	var failed []string
	for _, addr := range addresses {
		bal, err := r.Lookup(addr)
		if err != nil {
			r.log.Error("balance lookup failed", map[string]string{
				"address": addr,
				"error":   err.Error(),
			})
			failed = append(failed, addr)
			continue
		}
		fmt.Fprintln(r.out, FormatLine(addr, bal))
	}
	if len(failed) > 0 {
		return errors.Errorf("balance lookups failed for %d of %d addresses: %v",
			len(failed), len(addresses), failed)
	}
	return nil
}

// FormatLine renders the report line for one address.
func FormatLine(address string, bal *models.Balance) string {
	if bal.Unconfirmed != 0 {
		return fmt.Sprintf("%s has %d tapyrus (%d unconfirmed)", address, bal.Confirmed, bal.Unconfirmed)
	}
	return fmt.Sprintf("%s has %d tapyrus", address, bal.Confirmed)
}

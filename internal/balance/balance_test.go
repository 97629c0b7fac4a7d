package balance

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/models"
)

// Known fixture: the P2PKH script of 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa
// and the scripthash key the indexer expects for it.
const (
	fixtureAddress    = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	fixtureScriptHex  = "76a91462e907b15cbf27d5425399ebf6f0fb50ebb88f1888ac"
	fixtureScriptHash = "8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161"
)

func TestResolveScript_KnownAddress(t *testing.T) {
	resolver := NewNetworkResolver(&chaincfg.MainNetParams)

	script, err := resolver.ResolveScript(fixtureAddress)
	require.NoError(t, err)
	assert.Equal(t, fixtureScriptHex, hex.EncodeToString(script))
}

func TestResolveScript_Deterministic(t *testing.T) {
	resolver := NewNetworkResolver(&chaincfg.MainNetParams)

	first, err := resolver.ResolveScript(fixtureAddress)
	require.NoError(t, err)
	second, err := resolver.ResolveScript(fixtureAddress)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, ScriptHashKey(first), ScriptHashKey(second))
}

func TestResolveScript_Malformed(t *testing.T) {
	resolver := NewNetworkResolver(&chaincfg.MainNetParams)

	_, err := resolver.ResolveScript("definitely-not-an-address")
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestResolveScript_WrongNetwork(t *testing.T) {
	resolver := NewNetworkResolver(&chaincfg.MainNetParams)

	// Valid testnet address, must be rejected under production params.
	_, err := resolver.ResolveScript("mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn")
	assert.True(t, errors.Is(err, ErrInvalidAddress))
}

func TestScriptHashKey_Fixture(t *testing.T) {
	script, err := hex.DecodeString(fixtureScriptHex)
	require.NoError(t, err)

	assert.Equal(t, fixtureScriptHash, ScriptHashKey(script))
}

func TestScriptHashKey_ReversesDigest(t *testing.T) {
	script := []byte{0x01, 0x02, 0x03}

	digest := sha256.Sum256(script)
	expected := make([]byte, len(digest))
	for i := range digest {
		expected[len(digest)-1-i] = digest[i]
	}

	assert.Equal(t, hex.EncodeToString(expected), ScriptHashKey(script))
}

func TestScriptHashKey_SensitiveToScriptChanges(t *testing.T) {
	script, err := hex.DecodeString(fixtureScriptHex)
	require.NoError(t, err)

	mutated := make([]byte, len(script))
	copy(mutated, script)
	mutated[0] ^= 0x01

	assert.NotEqual(t, ScriptHashKey(script), ScriptHashKey(mutated))
}

type fakeBalanceClient struct {
	balances map[string]*models.Balance
	calls    []string
}

func (f *fakeBalanceClient) GetBalance(scriptHash string) (*models.Balance, error) {
	f.calls = append(f.calls, scriptHash)
	if bal, ok := f.balances[scriptHash]; ok {
		return bal, nil
	}
	return nil, errors.New("unexpected scripthash")
}

func TestReporter_FormatsBalanceLine(t *testing.T) {
	client := &fakeBalanceClient{balances: map[string]*models.Balance{
		fixtureScriptHash: {Confirmed: 150000000},
	}}
	var out bytes.Buffer
	reporter := NewReporter(NewNetworkResolver(&chaincfg.MainNetParams), client, &out, logger.NewNop())

	err := reporter.Report([]string{fixtureAddress})
	require.NoError(t, err)
	assert.Equal(t, fixtureAddress+" has 150000000 tapyrus\n", out.String())
	assert.Equal(t, []string{fixtureScriptHash}, client.calls)
}

func TestReporter_IncludesUnconfirmed(t *testing.T) {
	line := FormatLine("addr", &models.Balance{Confirmed: 100, Unconfirmed: -25})
	assert.Equal(t, "addr has 100 tapyrus (-25 unconfirmed)", line)
}

func TestReporter_ContinuesAfterBadAddress(t *testing.T) {
	client := &fakeBalanceClient{balances: map[string]*models.Balance{
		fixtureScriptHash: {Confirmed: 42},
	}}
	var out bytes.Buffer
	reporter := NewReporter(NewNetworkResolver(&chaincfg.MainNetParams), client, &out, logger.NewNop())

	err := reporter.Report([]string{"bad-address", fixtureAddress})

	// The good address is still reported, but the run fails overall.
	assert.Error(t, err)
	assert.Contains(t, out.String(), fixtureAddress+" has 42 tapyrus")
	assert.NotContains(t, out.String(), "bad-address")
}

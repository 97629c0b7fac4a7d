package electrum

import (
	"bufio"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/models"
	"github.com/tapyruslabs/chaintools/pkg/semver"
)

// Sentinel errors for the two failure classes a caller can act on.
var (
	ErrConnection = errors.New("electrum: connection failed")
	ErrProtocol   = errors.New("electrum: protocol error")
)

// Protocol versions this client can talk to. Checked during the
// server.version handshake.
var compatibleProtocolVersions = []semver.Version{
	semver.NewVersion(1, 2, 0),
}

const defaultTimeout = 30 * time.Second

// Client is a synchronous client for the Electrum-style indexer
// protocol: one JSON object per line over a plain TCP stream, each
// request answered in order. Not safe for concurrent use; the tools
// issue one call at a time.
type Client struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	nextID  uint64
	log     *logger.Logger
}

type request struct {
	ID     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *responseError  `json:"error"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Dial connects to the indexer at addr.
func Dial(addr string, log *logger.Logger) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, defaultTimeout)
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "dial %s: %s", addr, err)
	}
	log.Debug("connected to electrum server", map[string]string{"addr": addr})
	return &Client{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: defaultTimeout,
		log:     log,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call issues a single method call and blocks until the reply arrives.
// The raw result field is returned; an error reply or a reply without a
// result yields ErrProtocol, transport failures yield ErrConnection.
func (c *Client) Call(method string, params ...interface{}) (json.RawMessage, error) {
	c.nextID++
	if params == nil {
		params = []interface{}{}
	}
	req := request{ID: c.nextID, Method: method, Params: params}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(ErrProtocol, "marshal %s request: %s", method, err)
	}
	payload = append(payload, '\n')

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, errors.Wrapf(ErrConnection, "set deadline: %s", err)
	}
	if _, err := c.conn.Write(payload); err != nil {
		return nil, errors.Wrapf(ErrConnection, "send %s: %s", method, err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "read %s reply: %s", method, err)
	}

	var resp response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, errors.Wrapf(ErrProtocol, "decode %s reply: %s", method, err)
	}
	if resp.ID != req.ID {
		return nil, errors.Wrapf(ErrProtocol, "%s reply id %d does not match request id %d",
			method, resp.ID, req.ID)
	}
	if resp.Error != nil {
		return nil, errors.Wrapf(ErrProtocol, "%s failed: %s (code %d)",
			method, resp.Error.Message, resp.Error.Code)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, errors.Wrapf(ErrProtocol, "%s reply has no result", method)
	}
	return resp.Result, nil
}

// ServerVersion negotiates the protocol version with the server and
// verifies it is one this client can talk to.
func (c *Client) ServerVersion(clientName string) (string, semver.Version, error) {
	want := compatibleProtocolVersions[len(compatibleProtocolVersions)-1]

	result, err := c.Call("server.version", clientName, want.String())
	if err != nil {
		return "", semver.Version{}, err
	}

	var reply [2]string
	if err := json.Unmarshal(result, &reply); err != nil {
		return "", semver.Version{}, errors.Wrapf(ErrProtocol, "decode server.version result: %s", err)
	}

	ver, err := semver.Parse(reply[1])
	if err != nil {
		return "", semver.Version{}, errors.Wrapf(ErrProtocol, "server advertises unparsable protocol version %q", reply[1])
	}
	if !semver.AnyCompatible(compatibleProtocolVersions, ver) {
		return "", semver.Version{}, errors.Wrapf(ErrProtocol,
			"server protocol version %s is not compatible, need one of %v",
			ver, compatibleProtocolVersions)
	}

	c.log.Debug("negotiated electrum protocol", map[string]string{
		"server":   reply[0],
		"protocol": ver.String(),
	})
	return reply[0], ver, nil
}

// GetBalance looks up the balance indexed under the given scripthash.
func (c *Client) GetBalance(scriptHash string) (*models.Balance, error) {
	result, err := c.Call("blockchain.scripthash.get_balance", scriptHash)
	if err != nil {
		return nil, err
	}

	var balance models.Balance
	if err := json.Unmarshal(result, &balance); err != nil {
		return nil, errors.Wrapf(ErrProtocol, "decode get_balance result: %s", err)
	}
	return &balance, nil
}

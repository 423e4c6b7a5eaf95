// -------------------- ipfs/ipfs.go --------------------

//digests IPFS content and publishes digest records

package ipfs

import (
	"bytes"
	"encoding/json"
	"io"

	"RipeDigest/enc"

	"github.com/decred/dcrwallet/errors/v2"
	"github.com/decred/slog"
	shell "github.com/ipfs/go-ipfs-api"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Shell is the subset of *shell.Shell used by Client.
type Shell interface {
	Cat(path string) (io.ReadCloser, error)
	Add(r io.Reader, options ...shell.AddOpts) (string, error)
}

type IPFSClient struct {
	Shell Shell
}

func NewClient(apiEndpoint string) *IPFSClient {
	return &IPFSClient{Shell: shell.NewShell(apiEndpoint)}
}

// Fetch returns the content stored under cid.
func (c *IPFSClient) Fetch(cid string) ([]byte, error) {
	const op errors.Op = "ipfs.Fetch"
	reader, err := c.Shell.Cat(cid)
	if err != nil {
		return nil, errors.E(op, errors.NotExist, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	return data, nil
}

// DigestCID fetches cid and returns the digest of its content and its size.
func (c *IPFSClient) DigestCID(cid string) (string, int, error) {
	data, err := c.Fetch(cid)
	if err != nil {
		return "", 0, err
	}
	d := enc.Digest(data)
	log.Debugf("Digested %s (%d bytes): %s", cid, len(data), d)
	return d, len(data), nil
}

// StoreRecord adds the JSON encoding of record and returns its CID.
func (c *IPFSClient) StoreRecord(record interface{}) (string, error) {
	const op errors.Op = "ipfs.StoreRecord"
	data, err := json.Marshal(record)
	if err != nil {
		return "", errors.E(op, errors.Encoding, err)
	}
	cid, err := c.Shell.Add(bytes.NewReader(data))
	if err != nil {
		return "", errors.E(op, errors.IO, err)
	}
	return cid, nil
}

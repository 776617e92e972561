package chainstate

import (
	"context"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/pkg/errors"
)

// NodeHead reads the latest block number over a node's RPC connection.
type NodeHead struct {
	api *gsrpc.SubstrateAPI
}

// DialHead connects to a node endpoint.
func DialHead(endpoint string) (*NodeHead, error) {
	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", endpoint)
	}

	return &NodeHead{api: api}, nil
}

// NewNodeHead wraps an existing RPC connection.
func NewNodeHead(api *gsrpc.SubstrateAPI) *NodeHead {
	return &NodeHead{api: api}
}

// LatestBlockNumber implements HeadReader. The underlying RPC client is not
// context-aware; cancellation applies between attempts only.
func (h *NodeHead) LatestBlockNumber(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	header, err := h.api.RPC.Chain.GetHeaderLatest()
	if err != nil {
		return 0, errors.Wrap(err, "get latest header")
	}

	return uint32(header.Number), nil
}

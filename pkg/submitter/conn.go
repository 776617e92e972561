package submitter

import (
	"bytes"
	"context"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	regstate "github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/author"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/pkg/errors"
)

// NodeConn implements Conn over a node RPC connection, signing with a dev
// keypair (Alice by default).
type NodeConn struct {
	api         *gsrpc.SubstrateAPI
	meta        *types.Metadata
	signer      signature.KeyringPair
	genesisHash types.Hash
	rv          *types.RuntimeVersion
	events      retriever.EventRetriever
}

// Dial connects to a node endpoint and captures the runtime facts needed
// for signing.
func Dial(endpoint string) (*NodeConn, error) {
	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", endpoint)
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		return nil, errors.Wrap(err, "fetch runtime metadata")
	}

	genesisHash, err := api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return nil, errors.Wrap(err, "fetch genesis hash")
	}

	rv, err := api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return nil, errors.Wrap(err, "fetch runtime version")
	}

	events, err := retriever.NewDefaultEventRetriever(regstate.NewEventProvider(api.RPC.State), api.RPC.State)
	if err != nil {
		return nil, errors.Wrap(err, "create event retriever")
	}

	return &NodeConn{
		api:         api,
		meta:        meta,
		signer:      signature.TestKeyringPairAlice,
		genesisHash: genesisHash,
		rv:          rv,
		events:      events,
	}, nil
}

// Metadata returns the runtime metadata fetched at connect time.
func (c *NodeConn) Metadata() *types.Metadata {
	return c.meta
}

// API exposes the underlying RPC connection.
func (c *NodeConn) API() *gsrpc.SubstrateAPI {
	return c.api
}

// Submit implements Conn: signs the call bytes and submits the extrinsic,
// returning a watch over its lifecycle events.
func (c *NodeConn) Submit(_ context.Context, call []byte) (Watch, error) {
	ext, err := c.signedExtrinsic(call)
	if err != nil {
		return nil, err
	}

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return nil, errors.Wrap(err, "submit extrinsic")
	}

	return newStatusWatch(sub), nil
}

func (c *NodeConn) signedExtrinsic(call []byte) (types.Extrinsic, error) {
	if len(call) < 2 {
		return types.Extrinsic{}, errors.New("call bytes shorter than a call index")
	}

	ext := types.NewExtrinsic(types.Call{
		CallIndex: types.CallIndex{SectionIndex: call[0], MethodIndex: call[1]},
		Args:      types.Args(call[2:]),
	})

	nonce, err := c.accountNonce()
	if err != nil {
		return types.Extrinsic{}, err
	}

	opts := types.SignatureOptions{
		BlockHash:          c.genesisHash, // immortal era
		Era:                types.ExtrinsicEra{IsMortalEra: false},
		GenesisHash:        c.genesisHash,
		Nonce:              types.NewUCompactFromUInt(uint64(nonce)),
		SpecVersion:        c.rv.SpecVersion,
		Tip:                types.NewUCompactFromUInt(0),
		TransactionVersion: c.rv.TransactionVersion,
	}

	if err := ext.Sign(c.signer, opts); err != nil {
		return types.Extrinsic{}, errors.Wrap(err, "sign extrinsic")
	}

	return ext, nil
}

func (c *NodeConn) accountNonce() (uint32, error) {
	key, err := types.CreateStorageKey(c.meta, "System", "Account", c.signer.PublicKey)
	if err != nil {
		return 0, errors.Wrap(err, "create account storage key")
	}

	var accountInfo types.AccountInfo
	ok, err := c.api.RPC.State.GetStorageLatest(key, &accountInfo)
	if err != nil {
		return 0, errors.Wrap(err, "read account info")
	}
	if !ok {
		// account not yet on chain: first transaction
		return 0, nil
	}

	return uint32(accountInfo.Nonce), nil
}

// BlockNumber implements Conn.
func (c *NodeConn) BlockNumber(_ context.Context, blockHash types.Hash) (uint32, error) {
	block, err := c.api.RPC.Chain.GetBlock(blockHash)
	if err != nil {
		return 0, errors.Wrap(err, "fetch block")
	}

	return uint32(block.Block.Header.Number), nil
}

// DispatchOutcome implements Conn: locates the extrinsic carrying the call
// within the block and checks its System dispatch event.
func (c *NodeConn) DispatchOutcome(_ context.Context, blockHash types.Hash, call []byte) error {
	block, err := c.api.RPC.Chain.GetBlock(blockHash)
	if err != nil {
		return errors.Wrap(err, "fetch block")
	}

	extIdx := -1
	for i, ext := range block.Block.Extrinsics {
		raw, err := codec.Encode(ext.Method)
		if err != nil {
			continue
		}
		if bytes.Equal(raw, call) {
			extIdx = i

			break
		}
	}
	if extIdx < 0 {
		return errors.New("submitted extrinsic not present in finalized block")
	}

	events, err := c.events.GetEvents(blockHash)
	if err != nil {
		return errors.Wrap(err, "retrieve block events")
	}

	for _, ev := range events {
		if ev.Phase == nil || !ev.Phase.IsApplyExtrinsic || ev.Phase.AsApplyExtrinsic != uint32(extIdx) {
			continue
		}
		switch ev.Name {
		case "System.ExtrinsicSuccess":
			return nil
		case "System.ExtrinsicFailed":
			return errors.New("extrinsic dispatch failed")
		}
	}

	return errors.New("no dispatch outcome event for extrinsic")
}

// ReadCounter implements Conn: reads a plain u32 storage value.
func (c *NodeConn) ReadCounter(_ context.Context, pallet string, item string) (uint32, error) {
	key, err := types.CreateStorageKey(c.meta, pallet, item)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s.%s storage key", pallet, item)
	}

	var count types.U32
	ok, err := c.api.RPC.State.GetStorageLatest(key, &count)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s.%s", pallet, item)
	}
	if !ok {
		return 0, errors.Errorf("%s.%s not found", pallet, item)
	}

	return uint32(count), nil
}

// statusWatch adapts the RPC status subscription to the Watch interface.
type statusWatch struct {
	sub    *author.ExtrinsicStatusSubscription
	events chan StatusEvent
	done   chan struct{}
}

func newStatusWatch(sub *author.ExtrinsicStatusSubscription) *statusWatch {
	w := &statusWatch{
		sub:    sub,
		events: make(chan StatusEvent),
		done:   make(chan struct{}),
	}
	go w.pump()

	return w
}

func (w *statusWatch) pump() {
	defer close(w.events)
	for {
		select {
		case status, ok := <-w.sub.Chan():
			if !ok {
				return
			}
			select {
			case w.events <- convertStatus(status):
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}

func convertStatus(status types.ExtrinsicStatus) StatusEvent {
	switch {
	case status.IsReady:
		return StatusEvent{Kind: EventReady}
	case status.IsInBlock:
		return StatusEvent{Kind: EventInBlock, BlockHash: status.AsInBlock}
	case status.IsFinalized:
		return StatusEvent{Kind: EventFinalized, BlockHash: status.AsFinalized}
	case status.IsRetracted:
		return StatusEvent{Kind: EventRetracted, BlockHash: status.AsRetracted}
	case status.IsDropped:
		return StatusEvent{Kind: EventDropped}
	case status.IsInvalid:
		return StatusEvent{Kind: EventInvalid}
	case status.IsUsurped:
		return StatusEvent{Kind: EventUsurped}
	default:
		return StatusEvent{Kind: EventOther}
	}
}

func (w *statusWatch) Events() <-chan StatusEvent {
	return w.events
}

func (w *statusWatch) Err() <-chan error {
	return w.sub.Err()
}

func (w *statusWatch) Unsubscribe() {
	close(w.done)
	w.sub.Unsubscribe()
}

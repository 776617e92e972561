package calldata

import (
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// NewEncoderWithFinder builds an Encoder whose call-index resolution goes
// through the given finder instead of full runtime metadata. Test use only.
func NewEncoderWithFinder(meta *types.Metadata, finder callIndexFinder) *Encoder {
	return &Encoder{meta: meta, finder: finder}
}

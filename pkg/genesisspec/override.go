// Package genesisspec assembles raw genesis overrides: hex storage key to
// hex SCALE value mappings merged into a chain specification at
// genesis.raw.top before the first block is produced.
package genesisspec

import (
	"encoding/json"
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/opengov-tools/referenda-harness/pkg/storagekey"
)

// Override is a raw spec override document. Keys are unique, last write
// wins, insertion order is irrelevant. Values are not validated against the
// destination item's encoded shape; supplying correctly encoded values is a
// caller contract.
type Override struct {
	top map[string]string
}

// NewOverride returns an empty override document.
func NewOverride() *Override {
	return &Override{top: make(map[string]string)}
}

// Set inserts a hex key/value pair, overwriting any previous value.
func (o *Override) Set(key string, value string) {
	o.top[key] = value
}

// Top returns the entries map.
func (o *Override) Top() map[string]string {
	return o.top
}

// Len returns the number of entries.
func (o *Override) Len() int {
	return len(o.top)
}

// MarshalJSON renders the full raw spec override structure:
// {"genesis":{"raw":{"top":{...}}}}.
func (o *Override) MarshalJSON() ([]byte, error) {
	doc := map[string]interface{}{
		"genesis": map[string]interface{}{
			"raw": map[string]interface{}{
				"top": o.top,
			},
		},
	}

	return json.Marshal(doc)
}

// mustEncodeHex SCALE-encodes a fixed-width value to 0x-hex. Only
// fixed-width integers and byte buffers are encoded here; a failure is a
// programmer error.
func mustEncodeHex(value interface{}) string {
	b, err := codec.Encode(value)
	if err != nil {
		panic(fmt.Sprintf("genesisspec: encode %T: %v", value, err))
	}

	return storagekey.Hex(b)
}

// Package calldata builds SCALE-encoded call payloads against live runtime
// metadata. Pallet and call positions are always resolved by name, never
// from a fixed numeric table, so the harness stays valid as the target
// runtime's metadata evolves. An unresolvable name fails hard and
// immediately: silently proceeding would produce a call that looks valid
// but targets the wrong action.
package calldata

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
)

// Origin names a proposal origin as the runtime's two-level OriginCaller
// scheme: an outer namespace variant wrapping a named inner variant.
type Origin struct {
	Outer string
	Inner string
}

// RootOrigin is the bare system Root origin.
func RootOrigin() Origin {
	return Origin{Outer: "system", Inner: "Root"}
}

// callIndexFinder resolves "Pallet.call" names to runtime call indices.
// *types.Metadata satisfies it.
type callIndexFinder interface {
	FindCallIndex(call string) (types.CallIndex, error)
}

// Encoder builds call bytes against a single runtime's metadata.
type Encoder struct {
	meta   *types.Metadata
	finder callIndexFinder
}

// NewEncoder wraps live runtime metadata.
func NewEncoder(meta *types.Metadata) *Encoder {
	return &Encoder{meta: meta, finder: meta}
}

// EncodeCall resolves pallet.call by name and returns the full call bytes:
// the two resolved index bytes followed by the pre-encoded arguments.
func (e *Encoder) EncodeCall(pallet string, call string, args []byte) ([]byte, error) {
	ci, err := e.finder.FindCallIndex(pallet + "." + call)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve call %s.%s against metadata", pallet, call)
	}

	out := make([]byte, 0, 2+len(args))
	out = append(out, ci.SectionIndex, ci.MethodIndex)
	out = append(out, args...)

	return out, nil
}

// OriginBytes resolves the origin's outer and inner variant names against
// the runtime's OriginCaller enum and returns the two-byte variant
// encoding. Both inner variants used here are fieldless.
func (e *Encoder) OriginBytes(origin Origin) ([]byte, error) {
	outerIdx, innerIdx, err := e.resolveOriginVariant(origin.Outer, origin.Inner)
	if err != nil {
		return nil, err
	}

	return []byte{outerIdx, innerIdx}, nil
}

// resolveOriginVariant walks the v14 type registry for the runtime's
// OriginCaller variant type and matches the outer variant by name, then the
// inner variant by name inside the outer variant's field type.
func (e *Encoder) resolveOriginVariant(outer string, inner string) (uint8, uint8, error) {
	if e.meta.Version != 14 {
		return 0, 0, errors.Errorf("metadata v%d does not carry a type registry", e.meta.Version)
	}
	m := &e.meta.AsMetadataV14

	originCaller := findTypeByPathSuffix(m, "OriginCaller")
	if originCaller == nil {
		return 0, 0, errors.New("OriginCaller type not found in metadata")
	}

	for _, outerVariant := range originCaller.Def.Variant.Variants {
		if string(outerVariant.Name) != outer {
			continue
		}
		if len(outerVariant.Fields) == 0 {
			return 0, 0, errors.Errorf("origin namespace %q carries no inner origin type", outer)
		}

		innerType, ok := m.EfficientLookup[lookupID(outerVariant.Fields[0].Type)]
		if !ok || !innerType.Def.IsVariant {
			return 0, 0, errors.Errorf("origin namespace %q: inner origin type missing from registry", outer)
		}

		for _, innerVariant := range innerType.Def.Variant.Variants {
			if string(innerVariant.Name) == inner {
				return uint8(outerVariant.Index), uint8(innerVariant.Index), nil
			}
		}

		return 0, 0, errors.Errorf("unknown origin %q in namespace %q", inner, outer)
	}

	return 0, 0, errors.Errorf("unknown origin namespace %q", outer)
}

// findTypeByPathSuffix returns the first variant type whose path ends with
// the given segment.
func findTypeByPathSuffix(m *types.MetadataV14, suffix string) *types.Si1Type {
	for _, typ := range m.EfficientLookup {
		if !typ.Def.IsVariant || len(typ.Path) == 0 {
			continue
		}
		if string(typ.Path[len(typ.Path)-1]) == suffix {
			return typ
		}
	}

	return nil
}

func lookupID(id types.Si1LookupTypeID) int64 {
	b := big.Int(id.UCompact)

	return b.Int64()
}

package genesisspec

import (
	"github.com/opengov-tools/referenda-harness/pkg/storagekey"
)

// AliceAccountID is the raw sr25519 public key of the dev account Alice.
var AliceAccountID = [32]byte{
	0xd4, 0x35, 0x93, 0xc7, 0x15, 0xfd, 0xd3, 0x1c, 0x61, 0x14, 0x1a, 0xbd, 0x04, 0xa9, 0x9f, 0xd6,
	0x82, 0x2c, 0x85, 0x58, 0x85, 0x4c, 0xcd, 0xe3, 0x9a, 0x56, 0x84, 0xe7, 0xa5, 0x6d, 0xa2, 0x7d,
}

// AliceFellowshipRank covers every fellowship track up to rank 9.
const AliceFellowshipRank uint16 = 9

// MigratorOverride sets AhMigrator.AhMigrationStage to MigrationDone
// (enum variant index 2, SCALE 0x02). The terminal stage lifts the
// BaseCallFilter that would otherwise block Referenda.submit.
func MigratorOverride() *Override {
	o := NewOverride()
	o.Set(storagekey.ValueKey("AhMigrator", "AhMigrationStage"), "0x02")

	return o
}

// FellowshipOverride registers member as a fellow of the given rank in
// FellowshipCollective. A rank-N fellow is also a member at every lower
// rank, so MemberCount, IdToIndex and IndexToId are populated independently
// for each rank 0..=rank to keep the collective's per-rank iteration
// structures internally consistent.
func FellowshipOverride(member [32]byte, rank uint16) *Override {
	o := NewOverride()

	// Members[member] = MemberRecord { rank }, a single u16 field.
	o.Set(
		storagekey.MapKey("FellowshipCollective", "Members", member[:]),
		mustEncodeHex(rank),
	)

	for r := uint16(0); r <= rank; r++ {
		rankEncoded := scaleU16(r)

		// MemberCount[rank] = 1u32
		o.Set(
			storagekey.MapKey("FellowshipCollective", "MemberCount", rankEncoded),
			mustEncodeHex(uint32(1)),
		)

		// IdToIndex[rank, member] = 0u32
		o.Set(
			storagekey.DoubleMapKey("FellowshipCollective", "IdToIndex", rankEncoded, member[:]),
			mustEncodeHex(uint32(0)),
		)

		// IndexToId[rank, 0u32] = member
		o.Set(
			storagekey.DoubleMapKey("FellowshipCollective", "IndexToId", rankEncoded, scaleU32(0)),
			storagekey.Hex(member[:]),
		)
	}

	return o
}

// DefaultFellowshipOverride registers Alice at rank 9.
func DefaultFellowshipOverride() *Override {
	return FellowshipOverride(AliceAccountID, AliceFellowshipRank)
}

// raw little-endian map keys; values go through the SCALE codec instead
func scaleU16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func scaleU32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// Package image serializes object graphs to snapshot files and restores
// them. A snapshot holds a header with a CBOR manifest, the record-name
// table, one allocation frame per object, and the object bodies streamed
// through the kernel's per-tag save protocol. Frames come before bodies so
// the reader can allocate every object up front and resolve references,
// cycles included, without allocating while a body loads.
package image

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Snapshot Format Constants
// ---------------------------------------------------------------------------

// SnapshotMagic is the magic number identifying a snapshot file.
var SnapshotMagic = [4]byte{'G', 'A', 'P', 'S'}

// Snapshot format version
// v1: initial format
const SnapshotVersion uint32 = 1

// Snapshot header size in bytes
// magic(4) + version(4) + flags(4) + objectCount(4) + manifestLen(4) = 20
const snapshotHeaderSize = 20

// Snapshot flags
const (
	SnapshotFlagNone uint32 = 0
)

// Reference encoding: 1 byte tag + 8 bytes payload. Every slot reference a
// body writes occupies exactly EncodedRefSize bytes.
const (
	refTagNil      byte = 0x0
	refTagSmallInt byte = 0x1 // 48-bit signed integer
	refTagFFE      byte = 0x2 // field id (high 32) + element (low 32)
	refTagObject   byte = 0x3 // object index
)

// EncodedRefSize is the size of an encoded reference in bytes.
const EncodedRefSize = 9

// frameSize is the size of one allocation frame: tnum(4) + flags(1) +
// nslots(4) + nraw(4).
const frameSize = 13

// Frame flags
const frameFlagImmutable byte = 1 << 0

// ---------------------------------------------------------------------------
// Manifest
// ---------------------------------------------------------------------------

// Manifest describes a snapshot. It rides in the header as canonical CBOR.
type Manifest struct {
	SnapshotID  string    `cbor:"snapshot_id"`
	CreatedAt   time.Time `cbor:"created_at"`
	ObjectCount uint32    `cbor:"object_count"`
	RootIndex   uint32    `cbor:"root_index"`
	NameCount   uint32    `cbor:"name_count"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalManifest serializes a Manifest to canonical CBOR bytes.
func MarshalManifest(m *Manifest) ([]byte, error) {
	return cborEncMode.Marshal(m)
}

// UnmarshalManifest deserializes a Manifest from CBOR bytes.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("image: unmarshal manifest: %w", err)
	}
	return &m, nil
}

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/siphamandlakheswa/gap/kernel"
)

// ---------------------------------------------------------------------------
// Snapshot Error Types
// ---------------------------------------------------------------------------

var (
	ErrInvalidMagic    = errors.New("image: invalid magic number: expected GAPS")
	ErrVersionMismatch = errors.New("image: snapshot version mismatch")
	ErrCorruptHeader   = errors.New("image: corrupt snapshot header")
	ErrCorruptData     = errors.New("image: corrupt snapshot data")
)

// ---------------------------------------------------------------------------
// Reader: restores an object graph from a snapshot
// ---------------------------------------------------------------------------

// Reader restores one object graph. It allocates every object from its
// frame before any body is read, so body loading resolves references by
// index into already-allocated objects and never allocates itself.
type Reader struct {
	k      *kernel.Kernel
	data   []byte
	offset int

	manifest *Manifest
	names    []string
	objects  []kernel.Value
	frames   []frame
}

type frame struct {
	tnum   kernel.Tnum
	flags  byte
	nslots uint32
	nraw   uint32
}

// ReadSnapshot restores the graph from r into k and returns the root.
func ReadSnapshot(k *kernel.Kernel, r io.Reader) (kernel.Value, *Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return kernel.Nil, nil, fmt.Errorf("image: read snapshot data: %w", err)
	}
	return ReadSnapshotBytes(k, data)
}

// ReadSnapshotFile restores the graph from a snapshot file.
func ReadSnapshotFile(k *kernel.Kernel, path string) (kernel.Value, *Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return kernel.Nil, nil, fmt.Errorf("image: read snapshot file: %w", err)
	}
	return ReadSnapshotBytes(k, data)
}

// ReadSnapshotBytes restores the graph from snapshot bytes.
func ReadSnapshotBytes(k *kernel.Kernel, data []byte) (root kernel.Value, m *Manifest, err error) {
	rd := &Reader{k: k, data: data}

	// Truncated or corrupt snapshots surface as short reads deep inside
	// body loading; recover them into ErrCorruptData.
	defer func() {
		if r := recover(); r != nil {
			root, m = kernel.Nil, nil
			err = fmt.Errorf("%w: %v", ErrCorruptData, r)
		}
	}()

	if err := rd.readHeader(); err != nil {
		return kernel.Nil, nil, err
	}
	rd.readNames()
	rd.readFrames()
	rd.allocate()
	rd.loadBodies()

	if int(rd.manifest.RootIndex) >= len(rd.objects) {
		return kernel.Nil, nil, fmt.Errorf("%w: root index out of range", ErrCorruptData)
	}
	return rd.objects[rd.manifest.RootIndex], rd.manifest, nil
}

func (rd *Reader) readHeader() error {
	if len(rd.data) < snapshotHeaderSize {
		return ErrCorruptHeader
	}
	if !bytes.Equal(rd.data[:4], SnapshotMagic[:]) {
		return ErrInvalidMagic
	}
	rd.offset = 4
	version := rd.readUint32()
	if version != SnapshotVersion {
		return fmt.Errorf("%w: got v%d, want v%d", ErrVersionMismatch, version, SnapshotVersion)
	}
	rd.readUint32() // flags, none defined yet
	objectCount := rd.readUint32()
	manifestLen := rd.readUint32()

	if rd.offset+int(manifestLen) > len(rd.data) {
		return ErrCorruptHeader
	}
	m, err := UnmarshalManifest(rd.data[rd.offset : rd.offset+int(manifestLen)])
	if err != nil {
		return err
	}
	rd.offset += int(manifestLen)

	if m.ObjectCount != objectCount {
		return fmt.Errorf("%w: object count disagrees with manifest", ErrCorruptHeader)
	}
	rd.manifest = m
	return nil
}

func (rd *Reader) readNames() {
	rd.names = make([]string, rd.manifest.NameCount)
	for i := range rd.names {
		n := int(rd.readUint32())
		rd.names[i] = string(rd.take(n))
	}
}

func (rd *Reader) readFrames() {
	rd.frames = make([]frame, rd.manifest.ObjectCount)
	for i := range rd.frames {
		rd.frames[i] = frame{
			tnum:   kernel.Tnum(rd.readUint32()),
			flags:  rd.take(1)[0],
			nslots: rd.readUint32(),
			nraw:   rd.readUint32(),
		}
	}
}

// allocate creates every object from its frame. Objects land in the
// reading goroutine's public region, mutable; flags apply after bodies.
func (rd *Reader) allocate() {
	rd.objects = make([]kernel.Value, len(rd.frames))
	for i, f := range rd.frames {
		rd.objects[i] = rd.k.NewBag(f.tnum, int(f.nslots), int(f.nraw))
	}
}

func (rd *Reader) loadBodies() {
	for i, obj := range rd.objects {
		rd.k.LoadObjBody(rd, obj)
		if rd.frames[i].flags&frameFlagImmutable != 0 {
			if err := rd.k.MakeImmutable(obj); err != nil {
				panic(err)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// kernel.Loader
// ---------------------------------------------------------------------------

func (rd *Reader) LoadUInt() uint64 {
	b := rd.take(8)
	return binary.LittleEndian.Uint64(b)
}

func (rd *Reader) LoadSubObj() kernel.Value {
	enc := rd.take(EncodedRefSize)
	payload := binary.LittleEndian.Uint64(enc[1:])
	switch enc[0] {
	case refTagNil:
		return kernel.Nil
	case refTagSmallInt:
		return kernel.FromSmallInt(int64(payload))
	case refTagFFE:
		return kernel.FromFFE(uint16(payload>>32), uint32(payload))
	case refTagObject:
		if payload >= uint64(len(rd.objects)) {
			panic("object index out of range")
		}
		return rd.objects[payload]
	default:
		panic(fmt.Sprintf("unknown reference tag 0x%x", enc[0]))
	}
}

func (rd *Reader) LoadBytes(b []byte) {
	copy(b, rd.take(len(b)))
}

func (rd *Reader) LoadRNam() int {
	idx := rd.LoadUInt()
	if idx >= uint64(len(rd.names)) {
		panic("record name index out of range")
	}
	return rd.k.RNam(rd.names[idx])
}

// ---------------------------------------------------------------------------
// Raw reads
// ---------------------------------------------------------------------------

func (rd *Reader) take(n int) []byte {
	if rd.offset+n > len(rd.data) {
		panic("unexpected end of snapshot data")
	}
	b := rd.data[rd.offset : rd.offset+n]
	rd.offset += n
	return b
}

func (rd *Reader) readUint32() uint32 {
	return binary.LittleEndian.Uint32(rd.take(4))
}

package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/siphamandlakheswa/gap/kernel"
)

// ---------------------------------------------------------------------------
// Writer: serializes an object graph to a snapshot
// ---------------------------------------------------------------------------

// Writer serializes one object graph reachable from a root. It assigns
// every bag a dense index during collection; bodies then refer to
// subobjects by index, so sharing and cycles survive the round trip.
type Writer struct {
	k *kernel.Kernel

	// Object mappings: master -> index
	index   map[*kernel.Bag]uint32
	objects []kernel.Value

	// Record-name table, built while bodies are written
	names     []string
	nameIndex map[string]uint32
}

// NewWriter creates a writer for objects of the given kernel.
func NewWriter(k *kernel.Kernel) *Writer {
	return &Writer{
		k:         k,
		index:     make(map[*kernel.Bag]uint32),
		nameIndex: make(map[string]uint32),
	}
}

// WriteSnapshot serializes the graph reachable from root to out and
// returns the manifest written into the header.
func (w *Writer) WriteSnapshot(out io.Writer, root kernel.Value) (*Manifest, error) {
	if _, ok := kernel.BagOf(root); !ok {
		return nil, fmt.Errorf("image: snapshot root must be a heap object")
	}
	w.collect(root)

	// Bodies first: writing them populates the name table.
	bodies := bytes.NewBuffer(nil)
	saver := &snapshotSaver{w: w, buf: bodies}
	for _, obj := range w.objects {
		w.k.SaveObjBody(saver, obj)
	}

	manifest := &Manifest{
		SnapshotID:  uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		ObjectCount: uint32(len(w.objects)),
		RootIndex:   w.index[mustMaster(root)],
		NameCount:   uint32(len(w.names)),
	}
	manifestBytes, err := MarshalManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("image: marshal manifest: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	buf.Write(SnapshotMagic[:])
	writeUint32(buf, SnapshotVersion)
	writeUint32(buf, SnapshotFlagNone)
	writeUint32(buf, uint32(len(w.objects)))
	writeUint32(buf, uint32(len(manifestBytes)))
	buf.Write(manifestBytes)

	for _, name := range w.names {
		writeUint32(buf, uint32(len(name)))
		buf.WriteString(name)
	}
	for _, obj := range w.objects {
		w.writeFrame(buf, obj)
	}
	buf.Write(bodies.Bytes())

	if _, err := out.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("image: write snapshot: %w", err)
	}
	return manifest, nil
}

// WriteSnapshotFile serializes the graph reachable from root to a file.
func WriteSnapshotFile(k *kernel.Kernel, path string, root kernel.Value) (*Manifest, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("image: create snapshot file: %w", err)
	}
	defer f.Close()
	return NewWriter(k).WriteSnapshot(f, root)
}

// collect walks the graph breadth-first and assigns every reachable bag a
// dense index. Immediates are encoded inline and never collected.
func (w *Writer) collect(root kernel.Value) {
	queue := []kernel.Value{root}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		b, ok := kernel.BagOf(v)
		if !ok {
			continue
		}
		if _, seen := w.index[b]; seen {
			continue
		}
		w.index[b] = uint32(len(w.objects))
		w.objects = append(w.objects, v)
		for i := 0; i < b.NumSlots(); i++ {
			queue = append(queue, b.Slot(i))
		}
	}
}

// writeFrame emits the allocation frame for one object: tag, flags and
// sizes, everything the reader needs to allocate before bodies arrive.
func (w *Writer) writeFrame(buf *bytes.Buffer, obj kernel.Value) {
	b := mustMaster(obj)
	writeUint32(buf, uint32(b.Tnum()))
	flags := byte(0)
	if !b.IsMutableFlag() {
		flags |= frameFlagImmutable
	}
	buf.WriteByte(flags)
	writeUint32(buf, uint32(b.NumSlots()))
	writeUint32(buf, uint32(b.RawLen()))
}

func (w *Writer) registerName(name string) uint32 {
	if idx, ok := w.nameIndex[name]; ok {
		return idx
	}
	idx := uint32(len(w.names))
	w.names = append(w.names, name)
	w.nameIndex[name] = idx
	return idx
}

func mustMaster(v kernel.Value) *kernel.Bag {
	b, ok := kernel.BagOf(v)
	if !ok {
		panic("image: immediate where a heap object was expected")
	}
	return b
}

func writeUint32(buf *bytes.Buffer, x uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], x)
	buf.Write(b[:])
}

// ---------------------------------------------------------------------------
// snapshotSaver: the kernel-facing component sink
// ---------------------------------------------------------------------------

type snapshotSaver struct {
	w   *Writer
	buf *bytes.Buffer
}

func (s *snapshotSaver) SaveUInt(x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	s.buf.Write(b[:])
}

func (s *snapshotSaver) SaveSubObj(obj kernel.Value) {
	var enc [EncodedRefSize]byte
	switch {
	case obj.IsNil():
		enc[0] = refTagNil
	case obj.IsSmallInt():
		enc[0] = refTagSmallInt
		binary.LittleEndian.PutUint64(enc[1:], uint64(obj.SmallInt()))
	case obj.IsFFE():
		enc[0] = refTagFFE
		payload := uint64(obj.FFEField())<<32 | uint64(obj.FFEElement())
		binary.LittleEndian.PutUint64(enc[1:], payload)
	default:
		b := mustMaster(obj)
		idx, ok := s.w.index[b]
		if !ok {
			panic("image: reference to an uncollected object")
		}
		enc[0] = refTagObject
		binary.LittleEndian.PutUint64(enc[1:], uint64(idx))
	}
	s.buf.Write(enc[:])
}

func (s *snapshotSaver) SaveBytes(b []byte) {
	s.buf.Write(b)
}

func (s *snapshotSaver) SaveRNam(id int) {
	idx := s.w.registerName(s.w.k.RNamName(id))
	s.SaveUInt(uint64(idx))
}

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/siphamandlakheswa/gap/kernel"
)

func snapshotBytes(t *testing.T) []byte {
	t.Helper()
	k := kernel.NewKernel()
	l := k.NewPlist(1)
	if err := k.SetPlistElm(l, 1, k.NewString("x")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := NewWriter(k).WriteSnapshot(&buf, l); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadRejectsBadMagic(t *testing.T) {
	data := snapshotBytes(t)
	data[0] = 'X'
	_, _, err := ReadSnapshotBytes(kernel.NewKernel(), data)
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadRejectsVersionMismatch(t *testing.T) {
	data := snapshotBytes(t)
	binary.LittleEndian.PutUint32(data[4:], SnapshotVersion+1)
	_, _, err := ReadSnapshotBytes(kernel.NewKernel(), data)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestReadRejectsTruncatedData(t *testing.T) {
	data := snapshotBytes(t)
	for _, n := range []int{0, 3, snapshotHeaderSize - 1, len(data) / 2, len(data) - 1} {
		_, _, err := ReadSnapshotBytes(kernel.NewKernel(), data[:n])
		if err == nil {
			t.Errorf("truncation at %d bytes accepted", n)
		}
	}
}

func TestReadRejectsCorruptObjectCount(t *testing.T) {
	data := snapshotBytes(t)
	binary.LittleEndian.PutUint32(data[12:], 99)
	_, _, err := ReadSnapshotBytes(kernel.NewKernel(), data)
	if !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := &Manifest{
		SnapshotID:  "id-1",
		ObjectCount: 3,
		RootIndex:   0,
		NameCount:   2,
	}
	data, err := MarshalManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalManifest(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.SnapshotID != m.SnapshotID || got.ObjectCount != 3 || got.NameCount != 2 {
		t.Errorf("manifest roundtrip: %+v", got)
	}
}

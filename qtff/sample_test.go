package qtff

import (
	"bytes"
	"errors"
	"testing"
)

func TestSampleSizeUniform(t *testing.T) {
	t.Parallel()

	raw := atom("stsz",
		[]byte{0x00}, u24(0),
		u32(0x100), // every sample is 256 bytes
		u32(5),
	)
	var stsz SampleSize
	n, err := stsz.Unmarshal(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n != 20 || stsz.Len() != 20 {
		t.Fatalf("n=%d len=%d, want 20", n, stsz.Len())
	}
	if stsz.SampleSize != 0x100 || stsz.EntryCount != 5 {
		t.Fatalf("size=%#x entries=%d", stsz.SampleSize, stsz.EntryCount)
	}

	var out bytes.Buffer
	if _, err := stsz.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleSizePerSampleTable(t *testing.T) {
	t.Parallel()

	raw := atom("stsz",
		[]byte{0x00}, u24(0),
		u32(0),
		u32(3),
		u32(100), u32(200), u32(300),
	)
	var stsz SampleSize
	if _, err := stsz.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stsz.EntryCount != 3 || stsz.Entries[2] != 300 {
		t.Fatalf("entries %d %v", stsz.EntryCount, stsz.Entries[:stsz.EntryCount])
	}

	var out bytes.Buffer
	if _, err := stsz.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleSizeUniformRejectsTable(t *testing.T) {
	t.Parallel()

	// A nonzero sample size means no table may follow.
	raw := atom("stsz",
		[]byte{0x00}, u24(0),
		u32(0x100),
		u32(1),
		u32(123),
	)
	var stsz SampleSize
	if _, err := stsz.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestTimeToSampleRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("stts",
		[]byte{0x00}, u24(0),
		u32(2),
		u32(10), u32(100),
		u32(1), u32(50),
	)
	var stts TimeToSample
	if _, err := stts.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stts.EntryCount != 2 {
		t.Fatalf("entries %d, want 2", stts.EntryCount)
	}
	if stts.Entries[0].Count != 10 || stts.Entries[0].Duration != 100 {
		t.Fatalf("entry 0 %+v", stts.Entries[0])
	}

	var out bytes.Buffer
	if _, err := stts.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestTimeToSampleTrailingBytes(t *testing.T) {
	t.Parallel()

	raw := atom("stts",
		[]byte{0x00}, u24(0),
		u32(1),
		u32(10), u32(100),
		[]byte{0xff},
	)
	var stts TimeToSample
	if _, err := stts.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestCompositionOffsetSigned(t *testing.T) {
	t.Parallel()

	raw := atom("ctts",
		[]byte{0x00}, u24(0),
		u32(2),
		u32(1), u32(0xffffff9c), // offset -100
		u32(3), u32(200),
	)
	var ctts CompositionOffset
	if _, err := ctts.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ctts.Entries[0].Offset != -100 {
		t.Fatalf("offset %d, want -100", ctts.Entries[0].Offset)
	}

	var out bytes.Buffer
	if _, err := ctts.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleToChunkRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("stsc",
		[]byte{0x00}, u24(0),
		u32(1),
		u32(1), u32(30), u32(1),
	)
	var stsc SampleToChunk
	if _, err := stsc.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	e := stsc.Entries[0]
	if e.FirstChunk != 1 || e.SamplesPerChunk != 30 || e.SampleDescId != 1 {
		t.Fatalf("entry %+v", e)
	}

	var out bytes.Buffer
	if _, err := stsc.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestChunkOffsetCapacity(t *testing.T) {
	t.Parallel()

	raw := atom("stco", []byte{0x00}, u24(0), u32(MaxChunkOffsetEntries+1))
	var stco ChunkOffset
	if _, err := stco.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrTooManyAtoms) {
		t.Fatalf("err = %v, want ErrTooManyAtoms", err)
	}
}

func TestSyncSampleRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("stss",
		[]byte{0x00}, u24(0),
		u32(3),
		u32(1), u32(31), u32(61),
	)
	var stss SyncSample
	if _, err := stss.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stss.EntryCount != 3 || stss.Entries[1] != 31 {
		t.Fatalf("entries %v", stss.Entries[:stss.EntryCount])
	}

	var out bytes.Buffer
	if _, err := stss.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleDescriptionKeepsOpaqueTail(t *testing.T) {
	t.Parallel()

	tail := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	raw := atom("stsd",
		[]byte{0x00}, u24(0),
		u32(1),
		atom("avc1", pad(6), u16(1), tail),
	)
	var stsd SampleDescriptionTable
	if _, err := stsd.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stsd.EntryCount != 1 {
		t.Fatalf("entries %d, want 1", stsd.EntryCount)
	}
	entry := &stsd.Entries[0]
	if entry.DataFormat != StringToTag("avc1") {
		t.Fatalf("format %s", entry.DataFormat)
	}
	if entry.DataReferenceIndex != 1 {
		t.Fatalf("data reference index %d", entry.DataReferenceIndex)
	}
	if entry.DataLen != 6 || !bytes.Equal(entry.Data[:6], tail) {
		t.Fatalf("tail %x", entry.Data[:entry.DataLen])
	}

	var out bytes.Buffer
	if _, err := stsd.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleDescriptionCountMismatch(t *testing.T) {
	t.Parallel()

	raw := atom("stsd",
		[]byte{0x00}, u24(0),
		u32(2),
		atom("avc1", pad(6), u16(1)),
	)
	var stsd SampleDescriptionTable
	if _, err := stsd.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestSampleDependencyRunsToEnd(t *testing.T) {
	t.Parallel()

	flags := []byte{0x10, 0x20, 0x10, 0x30}
	raw := atom("sdtp", []byte{0x00}, u24(0), flags)
	var sdtp SampleDependency
	if _, err := sdtp.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sdtp.EntryCount != 4 || !bytes.Equal(sdtp.Entries[:4], flags) {
		t.Fatalf("entries %x", sdtp.Entries[:sdtp.EntryCount])
	}

	var out bytes.Buffer
	if _, err := sdtp.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleTableRequiredChildren(t *testing.T) {
	t.Parallel()

	var stbl SampleTable
	raw := atom("stbl", sttsEmptyBytes())
	if _, err := stbl.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing stsd: err = %v, want ErrBadFormat", err)
	}

	raw = atom("stbl", stsdEmptyBytes())
	if _, err := stbl.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing stts: err = %v, want ErrBadFormat", err)
	}
}

func TestSampleTableRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("stbl",
		stsdEmptyBytes(),
		sttsEmptyBytes(),
		atom("stss", []byte{0x00}, u24(0), u32(1), u32(1)),
		atom("stsc", []byte{0x00}, u24(0), u32(0)),
		atom("stsz", []byte{0x00}, u24(0), u32(0x40), u32(2)),
		atom("stco", []byte{0x00}, u24(0), u32(1), u32(4096)),
		atom("sdtp", []byte{0x00}, u24(0), []byte{0x20, 0x10}),
	)
	var stbl SampleTable
	n, err := stbl.Unmarshal(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d bytes, want %d", n, len(raw))
	}
	if !stbl.SyncSamples.Present || !stbl.SampleToChunk.Present ||
		!stbl.SampleSizes.Present || !stbl.ChunkOffsets.Present || !stbl.Dependencies.Present {
		t.Fatalf("optional children missing")
	}
	if stbl.CompositionOffsets.Present || stbl.PartialSyncSamples.Present {
		t.Fatalf("absent children decoded as present")
	}

	var out bytes.Buffer
	if _, err := stbl.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestSampleTableRejectsDuplicateChild(t *testing.T) {
	t.Parallel()

	raw := atom("stbl", stsdEmptyBytes(), sttsEmptyBytes(), sttsEmptyBytes())
	var stbl SampleTable
	if _, err := stbl.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

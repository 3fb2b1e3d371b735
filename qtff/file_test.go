package qtff

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func movieBytes() []byte {
	return atom("moov",
		atom("mvhd", mvhdPayload()),
		atom("trak",
			atom("tkhd", tkhdPayload()),
			atom("mdia",
				atom("mdhd", mdhdPayload()),
				atom("hdlr", hdlrPayload("mhlr", "vide", "VideoHandler")),
				videoMinfBytes(),
			),
		),
	)
}

func movieFileBytes() []byte {
	return cat(
		atom("ftyp", []byte("qt  "), u32(0x200), []byte("qt  ")),
		movieBytes(),
		atom("mdat", pad(16)),
		atom("free", pad(4)),
		atom("wide"),
		atom("pnot", u32(0x11111111), u16(0), []byte("moov"), u16(1)),
	)
}

func TestReadMovieFileRoundTrip(t *testing.T) {
	t.Parallel()

	raw := movieFileBytes()
	mf, err := ReadMovieFile(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !mf.FileType.Present {
		t.Fatalf("ftyp not decoded")
	}
	if off, _ := mf.Movie.Pos(); off != 20 {
		t.Fatalf("moov offset %d, want 20", off)
	}
	if mf.MovieDataCount != 1 || mf.MovieData[0].DataSize != 16 {
		t.Fatalf("mdat count=%d size=%d", mf.MovieDataCount, mf.MovieData[0].DataSize)
	}
	if mf.FreeCount != 1 || mf.Free[0].PadSize != 4 {
		t.Fatalf("free count=%d pad=%d", mf.FreeCount, mf.Free[0].PadSize)
	}
	if mf.WideCount != 1 || mf.Wide[0].PadSize != 0 {
		t.Fatalf("wide count=%d pad=%d", mf.WideCount, mf.Wide[0].PadSize)
	}
	if !mf.Preview.Present || mf.Preview.Value.AtomType.Tag() != MOOV {
		t.Fatalf("pnot not decoded")
	}
	if mf.Len() != len(raw) {
		t.Fatalf("len %d, want %d", mf.Len(), len(raw))
	}

	var out bytes.Buffer
	n, err := mf.Marshal(&out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if n != len(raw) || !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch (%d bytes):\n got %x\nwant %x", n, out.Bytes(), raw)
	}

	// A second decode and encode of the output must be stable.
	mf2, err := ReadMovieFile(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	var out2 bytes.Buffer
	if _, err := mf2.Marshal(&out2); err != nil {
		t.Fatalf("second marshal: %v", err)
	}
	if !bytes.Equal(out2.Bytes(), out.Bytes()) {
		t.Fatalf("encode not stable")
	}
}

func TestReadMovieFileRequiresMovie(t *testing.T) {
	t.Parallel()

	raw := atom("ftyp", []byte("qt  "), u32(0))
	if _, err := ReadMovieFile(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestReadMovieFileRejectsDuplicateMovie(t *testing.T) {
	t.Parallel()

	one := atom("moov", atom("mvhd", mvhdPayload()))
	raw := cat(one, one)
	if _, err := ReadMovieFile(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestReadMovieFileSkipsUnknownTopLevel(t *testing.T) {
	t.Parallel()

	unknown := atom("wxyz", pad(6))
	raw := cat(
		atom("ftyp", []byte("qt  "), u32(0)),
		unknown,
		atom("moov", atom("mvhd", mvhdPayload())),
	)
	mf, err := ReadMovieFile(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mf.Len() != len(raw)-len(unknown) {
		t.Fatalf("len %d, want %d", mf.Len(), len(raw)-len(unknown))
	}
}

func TestReadMovieFileTruncatedTail(t *testing.T) {
	t.Parallel()

	raw := cat(atom("moov", atom("mvhd", mvhdPayload())), []byte{0x00, 0x00, 0x01})
	if _, err := ReadMovieFile(bytes.NewReader(raw)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReadMovieFileCapacity(t *testing.T) {
	t.Parallel()

	var raw []byte
	for i := 0; i < MaxFreeAtoms+1; i++ {
		raw = cat(raw, atom("free", pad(4)))
	}
	if _, err := ReadMovieFile(bytes.NewReader(raw)); !errors.Is(err, ErrTooManyAtoms) {
		t.Fatalf("err = %v, want ErrTooManyAtoms", err)
	}
}

func TestReadFileAtomsKeepsUnknown(t *testing.T) {
	t.Parallel()

	raw := cat(
		atom("ftyp", []byte("qt  "), u32(0)),
		atom("wxyz", pad(4)),
		atom("mdat", pad(2)),
	)
	atoms, err := ReadFileAtoms(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(atoms) != 3 {
		t.Fatalf("atom count %d, want 3", len(atoms))
	}
	if _, ok := atoms[0].(*FileType); !ok {
		t.Fatalf("atom 0 is %T", atoms[0])
	}
	unk, ok := atoms[1].(*Unknown)
	if !ok {
		t.Fatalf("atom 1 is %T", atoms[1])
	}
	if unk.Tag() != StringToTag("wxyz") || unk.DataSize != 4 {
		t.Fatalf("unknown %s size=%d", unk.Tag(), unk.DataSize)
	}
	if off, _ := atoms[2].Pos(); off != 16+12 {
		t.Fatalf("mdat offset %d, want 28", off)
	}
}

func TestMovieDataZeroFills(t *testing.T) {
	t.Parallel()

	raw := atom("mdat", []byte{1, 2, 3, 4})
	var mdat MovieData
	if _, err := mdat.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if mdat.DataSize != 4 {
		t.Fatalf("data size %d, want 4", mdat.DataSize)
	}

	var out bytes.Buffer
	if _, err := mdat.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := atom("mdat", pad(4))
	if !bytes.Equal(out.Bytes(), want) {
		t.Fatalf("got %x, want zero filled payload", out.Bytes())
	}
}

func TestPreviewRejectsWrongSize(t *testing.T) {
	t.Parallel()

	raw := atom("pnot", u32(0), u16(0), []byte("moov"), u16(1), []byte{0xff})
	var pnot Preview
	if _, err := pnot.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	raw := movieFileBytes()
	path := filepath.Join(t.TempDir(), "demo.mov")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	if f.Size() != int64(len(raw)) {
		t.Fatalf("size %d, want %d", f.Size(), len(raw))
	}
	mf, err := f.Movie()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mf.Movie.Header.TimeScale != 0x01020304 {
		t.Fatalf("time scale %#x", mf.Movie.Header.TimeScale)
	}
	atoms, err := f.Atoms()
	if err != nil {
		t.Fatalf("atoms: %v", err)
	}
	if len(atoms) != 6 {
		t.Fatalf("top level atoms %d, want 6", len(atoms))
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

package qtff

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteHeader(&buf, 0x14, FTYP); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("header bytes %x, want %x", buf.Bytes(), want)
	}

	size, tag, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if size != 0x14 || tag != FTYP {
		t.Fatalf("size=%d tag=%s", size, tag)
	}
}

func TestPeekHeaderRestoresPosition(t *testing.T) {
	t.Parallel()

	raw := cat(atom("free", pad(4)), atom("mdat", pad(2)))
	r := bytes.NewReader(raw)

	size, tag, err := PeekHeader(r)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if size != 12 || tag != FREE {
		t.Fatalf("peek size=%d tag=%s", size, tag)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 0 {
		t.Fatalf("peek moved position to %d", pos)
	}

	// A second peek sees the same header.
	size2, tag2, err := PeekHeader(r)
	if err != nil || size2 != size || tag2 != tag {
		t.Fatalf("second peek size=%d tag=%s err=%v", size2, tag2, err)
	}
}

func TestHeaderEOFKinds(t *testing.T) {
	t.Parallel()

	if _, _, err := ReadHeader(bytes.NewReader(nil)); err != io.EOF {
		t.Fatalf("empty input: err = %v, want io.EOF", err)
	}
	if _, _, err := ReadHeader(bytes.NewReader([]byte{1, 2, 3})); err != io.ErrUnexpectedEOF {
		t.Fatalf("short input: err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestFixed16Values(t *testing.T) {
	t.Parallel()

	v, err := ReadFixed16(bytes.NewReader([]byte{0xff, 0x40}))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v.Integral != -1 || v.Fractional != 0x40 {
		t.Fatalf("decoded %+v", v)
	}
	if v.Float64() != -0.75 {
		t.Fatalf("value %v, want -0.75", v.Float64())
	}

	var buf bytes.Buffer
	if err := WriteFixed16(&buf, v); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xff, 0x40}) {
		t.Fatalf("encoded %x", buf.Bytes())
	}
}

func TestFixed32Values(t *testing.T) {
	t.Parallel()

	v, err := ReadFixed32(bytes.NewReader([]byte{0xff, 0xfe, 0x80, 0x00}))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v.Integral != -2 || v.Fractional != 0x8000 {
		t.Fatalf("decoded %+v", v)
	}
	if v.Float64() != -1.5 {
		t.Fatalf("value %v, want -1.5", v.Float64())
	}

	var buf bytes.Buffer
	if err := WriteFixed32(&buf, v); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0xff, 0xfe, 0x80, 0x00}) {
		t.Fatalf("encoded %x", buf.Bytes())
	}
}

func TestU24BigEndian(t *testing.T) {
	t.Parallel()

	v, err := ReadU24(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0x010203 {
		t.Fatalf("value %#x, want 0x010203", v)
	}

	var buf bytes.Buffer
	if err := WriteU24(&buf, v); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("encoded %x", buf.Bytes())
	}
}

func TestTagString(t *testing.T) {
	t.Parallel()

	if MOOV.String() != "moov" {
		t.Fatalf("moov renders as %q", MOOV.String())
	}
	if StringToTag("url ") != URL {
		t.Fatalf("url tag mismatch")
	}
	// NUL bytes render as spaces so dumps stay printable.
	if Tag(0x61620000).String() != "ab  " {
		t.Fatalf("padded tag renders as %q", Tag(0x61620000).String())
	}
}

func TestWriteZeros(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := writeZeros(&buf, 10000); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 10000 {
		t.Fatalf("wrote %d bytes, want 10000", buf.Len())
	}
	for _, b := range buf.Bytes() {
		if b != 0 {
			t.Fatalf("nonzero byte in output")
		}
	}
}

func TestParseErrorChain(t *testing.T) {
	t.Parallel()

	// The truncated child still claims 108 bytes, which overruns the
	// 48 byte parent.
	raw := atom("moov", atom("mvhd", mvhdPayload())[:40])
	var moov Movie
	_, err := moov.Unmarshal(bytes.NewReader(raw))
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err %T, want *ParseError", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "qtff: parse error: ") || !strings.Contains(msg, "mvhd") {
		t.Fatalf("message %q does not name the failing atom", msg)
	}
}

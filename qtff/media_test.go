package qtff

import (
	"bytes"
	"errors"
	"testing"
)

func videoMinfBytes() []byte {
	return atom("minf",
		atom("vmhd", vmhdPayload()),
		atom("hdlr", hdlrPayload("dhlr", "alis", "DataHandler")),
		atom("dinf", drefBytes()),
		atom("stbl", stsdEmptyBytes(), sttsEmptyBytes()),
	)
}

func TestMediaVideoInformation(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		atom("hdlr", hdlrPayload("mhlr", "vide", "VideoHandler")),
		videoMinfBytes(),
	)
	var mdia Media
	n, err := mdia.Unmarshal(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d bytes, want %d", n, len(raw))
	}
	if mdia.Handler.Name() != "VideoHandler" {
		t.Fatalf("handler name %q", mdia.Handler.Name())
	}
	if !mdia.Info.Present {
		t.Fatalf("minf not decoded")
	}
	minf := &mdia.Info.Value
	if minf.Kind != MediaInfoVideo {
		t.Fatalf("kind %v, want video", minf.Kind)
	}
	if minf.Video.Header.GraphicsMode != 0x0040 {
		t.Fatalf("graphics mode %#x", minf.Video.Header.GraphicsMode)
	}
	if !minf.Video.DataInfo.Present || minf.Video.DataInfo.Value.Refer.EntryCount != 1 {
		t.Fatalf("data reference not decoded")
	}
	if !minf.Video.SampleTable.Present {
		t.Fatalf("sample table not decoded")
	}

	var out bytes.Buffer
	if _, err := mdia.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestMediaSoundInformation(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		atom("hdlr", hdlrPayload("mhlr", "soun", "SoundHandler")),
		atom("minf",
			atom("smhd", smhdPayload()),
			atom("hdlr", hdlrPayload("dhlr", "alis", "DataHandler")),
		),
	)
	var mdia Media
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	minf := &mdia.Info.Value
	if minf.Kind != MediaInfoSound {
		t.Fatalf("kind %v, want sound", minf.Kind)
	}

	var out bytes.Buffer
	if _, err := mdia.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestMediaBaseInformation(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		atom("hdlr", hdlrPayload("mhlr", "text", "TextHandler")),
		atom("minf",
			atom("gmhd",
				atom("gmin", gminPayload()),
				atom("text", matrixBytes()),
			),
		),
	)
	var mdia Media
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	minf := &mdia.Info.Value
	if minf.Kind != MediaInfoBase {
		t.Fatalf("kind %v, want base", minf.Kind)
	}
	if minf.Base.Header.Info.GraphicsMode != 0x0040 {
		t.Fatalf("graphics mode %#x", minf.Base.Header.Info.GraphicsMode)
	}
	if !minf.Base.Header.Text.Present {
		t.Fatalf("text media information not decoded")
	}
	if minf.Base.Header.Text.Value.Matrix[0] != 0x00010000 {
		t.Fatalf("text matrix %#x", minf.Base.Header.Text.Value.Matrix[0])
	}

	var out bytes.Buffer
	if _, err := mdia.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestMediaRejectsInfoBeforeHandler(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		videoMinfBytes(),
		atom("hdlr", hdlrPayload("mhlr", "vide", "VideoHandler")),
	)
	var mdia Media
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestMediaRequiresHeaderAndHandler(t *testing.T) {
	t.Parallel()

	var mdia Media
	raw := atom("mdia", atom("hdlr", hdlrPayload("mhlr", "vide", "")))
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing mdhd: err = %v, want ErrBadFormat", err)
	}

	raw = atom("mdia", atom("mdhd", mdhdPayload()))
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing hdlr: err = %v, want ErrBadFormat", err)
	}
}

func TestVideoInformationRequiresHeader(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		atom("hdlr", hdlrPayload("mhlr", "vide", "")),
		atom("minf",
			atom("hdlr", hdlrPayload("dhlr", "alis", "")),
		),
	)
	var mdia Media
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestBaseInformationRequiresBaseHeader(t *testing.T) {
	t.Parallel()

	raw := atom("mdia",
		atom("mdhd", mdhdPayload()),
		atom("hdlr", hdlrPayload("mhlr", "text", "")),
		atom("minf",
			atom("hdlr", hdlrPayload("dhlr", "alis", "")),
		),
	)
	var mdia Media
	if _, err := mdia.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestHandlerNameBounded(t *testing.T) {
	t.Parallel()

	name := bytes.Repeat([]byte{'x'}, MaxComponentNameBytes+1)
	raw := atom("hdlr", hdlrPayload("mhlr", "vide", string(name)))
	var hdlr HandlerReference
	if _, err := hdlr.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrTooManyAtoms) {
		t.Fatalf("err = %v, want ErrTooManyAtoms", err)
	}
}

func TestDataReferenceCountMismatch(t *testing.T) {
	t.Parallel()

	// Declares two entries but carries one.
	raw := atom("dref",
		[]byte{0x00}, u24(0),
		u32(2),
		atom("url ", []byte{0x00}, u24(0x000001)),
	)
	var dref DataReferenceList
	if _, err := dref.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("too few entries: err = %v, want ErrBadFormat", err)
	}

	// Declares zero entries but carries one.
	raw = atom("dref",
		[]byte{0x00}, u24(0),
		u32(0),
		atom("url ", []byte{0x00}, u24(0x000001)),
	)
	if _, err := dref.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("too many entries: err = %v, want ErrBadFormat", err)
	}
}

func TestDataReferenceCapacity(t *testing.T) {
	t.Parallel()

	raw := atom("dref", []byte{0x00}, u24(0), u32(MaxDataReferences+1))
	var dref DataReferenceList
	if _, err := dref.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrTooManyAtoms) {
		t.Fatalf("err = %v, want ErrTooManyAtoms", err)
	}
}

func TestDataReferenceKindsRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("dinf", atom("dref",
		[]byte{0x00}, u24(0),
		u32(3),
		atom("url ", []byte{0x00}, u24(0x000001)),
		atom("alis", []byte{0x00}, u24(0), []byte{0xaa, 0xbb}),
		atom("rsrc", []byte{0x00}, u24(0)),
	))
	var dinf DataInformation
	if _, err := dinf.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	refer := &dinf.Refer
	if refer.EntryCount != 3 {
		t.Fatalf("entry count %d, want 3", refer.EntryCount)
	}
	if refer.Entries[1].Type != ALIS || refer.Entries[1].DataLen != 2 {
		t.Fatalf("alias entry %s len=%d", refer.Entries[1].Type, refer.Entries[1].DataLen)
	}

	var out bytes.Buffer
	if _, err := dinf.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

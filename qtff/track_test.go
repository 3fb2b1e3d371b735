package qtff

import (
	"bytes"
	"errors"
	"testing"
)

func aperturePayload(w, h uint32) []byte {
	return cat([]byte{0x00}, u24(0), u32(w), u32(h))
}

func TestTrackHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("tkhd", tkhdPayload())
	var tkhd TrackHeader
	n, err := tkhd.Unmarshal(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n != 92 || tkhd.Len() != 92 {
		t.Fatalf("n=%d len=%d, want 92", n, tkhd.Len())
	}
	if tkhd.TrackId != 1 || tkhd.Duration != 1000 {
		t.Fatalf("id=%d dur=%d", tkhd.TrackId, tkhd.Duration)
	}
	if tkhd.TrackWidth.Integral != 640 || tkhd.TrackHeight.Integral != 480 {
		t.Fatalf("dimensions %+v x %+v", tkhd.TrackWidth, tkhd.TrackHeight)
	}
	if tkhd.Volume.Integral != 1 || tkhd.Volume.Fractional != 0 {
		t.Fatalf("volume %+v", tkhd.Volume)
	}

	var out bytes.Buffer
	if _, err := tkhd.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestTrackRequiresHeaderAndMedia(t *testing.T) {
	t.Parallel()

	var trak Track
	raw := atom("trak", minimalMediaBytes("vide"))
	if _, err := trak.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing tkhd: err = %v, want ErrBadFormat", err)
	}

	raw = atom("trak", atom("tkhd", tkhdPayload()))
	if _, err := trak.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("missing mdia: err = %v, want ErrBadFormat", err)
	}
}

func TestTrackApertureRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("trak",
		atom("tkhd", tkhdPayload()),
		atom("tapt",
			atom("clef", aperturePayload(0x02800000, 0x01e00000)),
			atom("prof", aperturePayload(0x02800000, 0x01e00000)),
			atom("enof", aperturePayload(0x02800000, 0x01e00000)),
		),
		minimalMediaBytes("vide"),
	)
	var trak Track
	if _, err := trak.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !trak.Aperture.Present {
		t.Fatalf("aperture not decoded")
	}
	if trak.Aperture.Value.CleanAperture.Width.Integral != 640 {
		t.Fatalf("clean aperture width %+v", trak.Aperture.Value.CleanAperture.Width)
	}

	var out bytes.Buffer
	if _, err := trak.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestTrackApertureRequiresAllThree(t *testing.T) {
	t.Parallel()

	raw := atom("tapt",
		atom("clef", aperturePayload(0, 0)),
		atom("prof", aperturePayload(0, 0)),
	)
	var tapt TrackApertureModeDimensions
	if _, err := tapt.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestEditListSignedMediaTime(t *testing.T) {
	t.Parallel()

	raw := atom("edts", atom("elst",
		[]byte{0x00}, u24(0),
		u32(2),
		u32(500), u32(0xffffffff), u32(0x00010000), // media time -1, rate 1.0
		u32(500), u32(100), u32(0x00008000),
	))
	var edts Edit
	if _, err := edts.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	elst := &edts.List.Value
	if !edts.List.Present || elst.EntryCount != 2 {
		t.Fatalf("entries %d, want 2", elst.EntryCount)
	}
	if elst.Entries[0].MediaTime != -1 {
		t.Fatalf("media time %d, want -1", elst.Entries[0].MediaTime)
	}
	if elst.Entries[1].MediaRate.Float64() != 0.5 {
		t.Fatalf("media rate %v, want 0.5", elst.Entries[1].MediaRate.Float64())
	}

	var out bytes.Buffer
	if _, err := edts.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestEditListTruncatedEntries(t *testing.T) {
	t.Parallel()

	// Declares two entries but carries only one.
	raw := atom("elst",
		[]byte{0x00}, u24(0),
		u32(2),
		u32(500), u32(0), u32(0x00010000),
	)
	var elst EditList
	if _, err := elst.Unmarshal(bytes.NewReader(raw)); err == nil {
		t.Fatalf("want error for truncated entry table")
	}
}

func TestTrackReferenceRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("tref",
		atom("chap", u32(2)),
		atom("tmcd", u32(3), u32(4)),
	)
	var tref TrackReference
	if _, err := tref.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tref.TypeCount != 2 {
		t.Fatalf("type count %d, want 2", tref.TypeCount)
	}
	if tref.Types[0].Type != StringToTag("chap") || tref.Types[0].IdCount != 1 {
		t.Fatalf("type 0 %s ids=%d", tref.Types[0].Type, tref.Types[0].IdCount)
	}
	if tref.Types[1].TrackIds[1] != 4 {
		t.Fatalf("type 1 ids %v", tref.Types[1].TrackIds[:tref.Types[1].IdCount])
	}

	var out bytes.Buffer
	if _, err := tref.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

func TestTrackReferenceRejectsRaggedIds(t *testing.T) {
	t.Parallel()

	raw := atom("tref", atom("chap", []byte{1, 2, 3}))
	var tref TrackReference
	if _, err := tref.Unmarshal(bytes.NewReader(raw)); !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}

func TestTrackMatteRoundTrip(t *testing.T) {
	t.Parallel()

	raw := atom("matt", atom("kmat",
		[]byte{0x00}, u24(0),
		[]byte{0x10, 0x20, 0x30},
	))
	var matt TrackMatte
	if _, err := matt.Unmarshal(bytes.NewReader(raw)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	kmat := &matt.Matte
	if kmat.DataLen != 3 || !bytes.Equal(kmat.Data[:3], []byte{0x10, 0x20, 0x30}) {
		t.Fatalf("matte data %x", kmat.Data[:kmat.DataLen])
	}

	var out bytes.Buffer
	if _, err := matt.Marshal(&out); err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(out.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", out.Bytes(), raw)
	}
}

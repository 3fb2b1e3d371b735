package qtff

import (
	"io"
)

const TRAK = Tag(0x7472616b)

type Track struct {
	Header     TrackHeader
	Aperture   Optional[TrackApertureModeDimensions]
	Clipping   Optional[Clipping]
	Matte      Optional[TrackMatte]
	Edits      Optional[Edit]
	References Optional[TrackReference]
	Media      Media
	UserData   Optional[UserData]
	AtomPos
}

func (self *Track) Tag() Tag {
	return TRAK
}

func (self *Track) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, TRAK); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenHeader, seenMedia bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("trak", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("trak", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case TKHD:
			if seenHeader {
				err = parseErr("tkhd", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				err = parseErr("tkhd", offset+int64(n), err)
				return
			}
			seenHeader = true
		case TAPT:
			if self.Aperture.Present {
				err = parseErr("tapt", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Aperture.Value.Unmarshal(r); err != nil {
				err = parseErr("tapt", offset+int64(n), err)
				return
			}
			self.Aperture.Present = true
		case CLIP:
			if self.Clipping.Present {
				err = parseErr("clip", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Clipping.Value.Unmarshal(r); err != nil {
				err = parseErr("clip", offset+int64(n), err)
				return
			}
			self.Clipping.Present = true
		case MATT:
			if self.Matte.Present {
				err = parseErr("matt", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Matte.Value.Unmarshal(r); err != nil {
				err = parseErr("matt", offset+int64(n), err)
				return
			}
			self.Matte.Present = true
		case EDTS:
			if self.Edits.Present {
				err = parseErr("edts", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Edits.Value.Unmarshal(r); err != nil {
				err = parseErr("edts", offset+int64(n), err)
				return
			}
			self.Edits.Present = true
		case TREF:
			if self.References.Present {
				err = parseErr("tref", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.References.Value.Unmarshal(r); err != nil {
				err = parseErr("tref", offset+int64(n), err)
				return
			}
			self.References.Present = true
		case MDIA:
			if seenMedia {
				err = parseErr("mdia", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Media.Unmarshal(r); err != nil {
				err = parseErr("mdia", offset+int64(n), err)
				return
			}
			seenMedia = true
		case UDTA:
			if self.UserData.Present {
				err = parseErr("udta", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.UserData.Value.Unmarshal(r); err != nil {
				err = parseErr("udta", offset+int64(n), err)
				return
			}
			self.UserData.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenHeader {
		err = parseErr("tkhd", offset, ErrBadFormat)
		return
	}
	if !seenMedia {
		err = parseErr("mdia", offset, ErrBadFormat)
		return
	}
	return
}

func (self *Track) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), TRAK); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.Aperture.Present {
		if nn, err = self.Aperture.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.Clipping.Present {
		if nn, err = self.Clipping.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.Matte.Present {
		if nn, err = self.Matte.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.Edits.Present {
		if nn, err = self.Edits.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.References.Present {
		if nn, err = self.References.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if nn, err = self.Media.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.UserData.Present {
		if nn, err = self.UserData.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *Track) Len() (n int) {
	n += 8
	n += self.Header.Len()
	if self.Aperture.Present {
		n += self.Aperture.Value.Len()
	}
	if self.Clipping.Present {
		n += self.Clipping.Value.Len()
	}
	if self.Matte.Present {
		n += self.Matte.Value.Len()
	}
	if self.Edits.Present {
		n += self.Edits.Value.Len()
	}
	if self.References.Present {
		n += self.References.Value.Len()
	}
	n += self.Media.Len()
	if self.UserData.Present {
		n += self.UserData.Value.Len()
	}
	return
}

func (self *Track) Children() (r []Atom) {
	r = append(r, &self.Header)
	if self.Aperture.Present {
		r = append(r, &self.Aperture.Value)
	}
	if self.Clipping.Present {
		r = append(r, &self.Clipping.Value)
	}
	if self.Matte.Present {
		r = append(r, &self.Matte.Value)
	}
	if self.Edits.Present {
		r = append(r, &self.Edits.Value)
	}
	if self.References.Present {
		r = append(r, &self.References.Value)
	}
	r = append(r, &self.Media)
	if self.UserData.Present {
		r = append(r, &self.UserData.Value)
	}
	return
}

const TKHD = Tag(0x746b6864)

type TrackHeader struct {
	Version          uint8
	Flags            uint32
	CreationTime     uint32
	ModificationTime uint32
	TrackId          uint32
	Duration         uint32
	Layer            int16
	AlternateGroup   int16
	Volume           Fixed16
	Matrix           [9]uint32
	TrackWidth       Fixed32
	TrackHeight      Fixed32
	AtomPos
}

func (self *TrackHeader) Tag() Tag {
	return TKHD
}

func (self *TrackHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, TKHD); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.Version, err = ReadU8(r); err != nil {
		err = parseErr("Version", offset+int64(n), err)
		return
	}
	n += 1
	if self.Flags, err = ReadU24(r); err != nil {
		err = parseErr("Flags", offset+int64(n), err)
		return
	}
	n += 3
	if self.CreationTime, err = ReadU32(r); err != nil {
		err = parseErr("CreationTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.ModificationTime, err = ReadU32(r); err != nil {
		err = parseErr("ModificationTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.TrackId, err = ReadU32(r); err != nil {
		err = parseErr("TrackId", offset+int64(n), err)
		return
	}
	n += 4
	if err = discard(r, 4); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 4
	if self.Duration, err = ReadU32(r); err != nil {
		err = parseErr("Duration", offset+int64(n), err)
		return
	}
	n += 4
	if err = discard(r, 8); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 8
	if self.Layer, err = ReadI16(r); err != nil {
		err = parseErr("Layer", offset+int64(n), err)
		return
	}
	n += 2
	if self.AlternateGroup, err = ReadI16(r); err != nil {
		err = parseErr("AlternateGroup", offset+int64(n), err)
		return
	}
	n += 2
	if self.Volume, err = ReadFixed16(r); err != nil {
		err = parseErr("Volume", offset+int64(n), err)
		return
	}
	n += 2
	if err = discard(r, 2); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 2
	for i := 0; i < len(self.Matrix); i++ {
		if self.Matrix[i], err = ReadU32(r); err != nil {
			err = parseErr("Matrix", offset+int64(n), err)
			return
		}
		n += 4
	}
	if self.TrackWidth, err = ReadFixed32(r); err != nil {
		err = parseErr("TrackWidth", offset+int64(n), err)
		return
	}
	n += 4
	if self.TrackHeight, err = ReadFixed32(r); err != nil {
		err = parseErr("TrackHeight", offset+int64(n), err)
		return
	}
	n += 4
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *TrackHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), TKHD); err != nil {
		return
	}
	n += 8
	if err = WriteU8(w, self.Version); err != nil {
		return
	}
	n += 1
	if err = WriteU24(w, self.Flags); err != nil {
		return
	}
	n += 3
	if err = WriteU32(w, self.CreationTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.ModificationTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.TrackId); err != nil {
		return
	}
	n += 4
	if err = writeZeros(w, 4); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.Duration); err != nil {
		return
	}
	n += 4
	if err = writeZeros(w, 8); err != nil {
		return
	}
	n += 8
	if err = WriteI16(w, self.Layer); err != nil {
		return
	}
	n += 2
	if err = WriteI16(w, self.AlternateGroup); err != nil {
		return
	}
	n += 2
	if err = WriteFixed16(w, self.Volume); err != nil {
		return
	}
	n += 2
	if err = writeZeros(w, 2); err != nil {
		return
	}
	n += 2
	for i := 0; i < len(self.Matrix); i++ {
		if err = WriteU32(w, self.Matrix[i]); err != nil {
			return
		}
		n += 4
	}
	if err = WriteFixed32(w, self.TrackWidth); err != nil {
		return
	}
	n += 4
	if err = WriteFixed32(w, self.TrackHeight); err != nil {
		return
	}
	n += 4
	return
}

func (self *TrackHeader) Len() int {
	return 8 + 84
}

func (self *TrackHeader) Children() []Atom {
	return nil
}

const TAPT = Tag(0x74617074)

type TrackApertureModeDimensions struct {
	CleanAperture      TrackCleanAperture
	ProductionAperture TrackProductionAperture
	EncodedPixels      TrackEncodedPixels
	AtomPos
}

func (self *TrackApertureModeDimensions) Tag() Tag {
	return TAPT
}

func (self *TrackApertureModeDimensions) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, TAPT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenClean, seenProduction, seenEncoded bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("tapt", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("tapt", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case CLEF:
			if seenClean {
				err = parseErr("clef", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.CleanAperture.Unmarshal(r); err != nil {
				err = parseErr("clef", offset+int64(n), err)
				return
			}
			seenClean = true
		case PROF:
			if seenProduction {
				err = parseErr("prof", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.ProductionAperture.Unmarshal(r); err != nil {
				err = parseErr("prof", offset+int64(n), err)
				return
			}
			seenProduction = true
		case ENOF:
			if seenEncoded {
				err = parseErr("enof", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.EncodedPixels.Unmarshal(r); err != nil {
				err = parseErr("enof", offset+int64(n), err)
				return
			}
			seenEncoded = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenClean {
		err = parseErr("clef", offset, ErrBadFormat)
		return
	}
	if !seenProduction {
		err = parseErr("prof", offset, ErrBadFormat)
		return
	}
	if !seenEncoded {
		err = parseErr("enof", offset, ErrBadFormat)
		return
	}
	return
}

func (self *TrackApertureModeDimensions) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), TAPT); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.CleanAperture.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.ProductionAperture.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.EncodedPixels.Marshal(w); err != nil {
		return
	}
	n += nn
	return
}

func (self *TrackApertureModeDimensions) Len() int {
	return 8 + self.CleanAperture.Len() + self.ProductionAperture.Len() + self.EncodedPixels.Len()
}

func (self *TrackApertureModeDimensions) Children() []Atom {
	return []Atom{&self.CleanAperture, &self.ProductionAperture, &self.EncodedPixels}
}

const CLEF = Tag(0x636c6566)

type TrackCleanAperture struct {
	Version uint8
	Flags   uint32
	Width   Fixed32
	Height  Fixed32
	AtomPos
}

func (self *TrackCleanAperture) Tag() Tag {
	return CLEF
}

func (self *TrackCleanAperture) Unmarshal(r io.ReadSeeker) (n int, err error) {
	return unmarshalAperture(r, CLEF, &self.AtomPos, &self.Version, &self.Flags, &self.Width, &self.Height)
}

func (self *TrackCleanAperture) Marshal(w io.Writer) (n int, err error) {
	return marshalAperture(w, CLEF, self.Version, self.Flags, self.Width, self.Height)
}

func (self *TrackCleanAperture) Len() int {
	return 8 + 12
}

func (self *TrackCleanAperture) Children() []Atom {
	return nil
}

const PROF = Tag(0x70726f66)

type TrackProductionAperture struct {
	Version uint8
	Flags   uint32
	Width   Fixed32
	Height  Fixed32
	AtomPos
}

func (self *TrackProductionAperture) Tag() Tag {
	return PROF
}

func (self *TrackProductionAperture) Unmarshal(r io.ReadSeeker) (n int, err error) {
	return unmarshalAperture(r, PROF, &self.AtomPos, &self.Version, &self.Flags, &self.Width, &self.Height)
}

func (self *TrackProductionAperture) Marshal(w io.Writer) (n int, err error) {
	return marshalAperture(w, PROF, self.Version, self.Flags, self.Width, self.Height)
}

func (self *TrackProductionAperture) Len() int {
	return 8 + 12
}

func (self *TrackProductionAperture) Children() []Atom {
	return nil
}

const ENOF = Tag(0x656e6f66)

type TrackEncodedPixels struct {
	Version uint8
	Flags   uint32
	Width   Fixed32
	Height  Fixed32
	AtomPos
}

func (self *TrackEncodedPixels) Tag() Tag {
	return ENOF
}

func (self *TrackEncodedPixels) Unmarshal(r io.ReadSeeker) (n int, err error) {
	return unmarshalAperture(r, ENOF, &self.AtomPos, &self.Version, &self.Flags, &self.Width, &self.Height)
}

func (self *TrackEncodedPixels) Marshal(w io.Writer) (n int, err error) {
	return marshalAperture(w, ENOF, self.Version, self.Flags, self.Width, self.Height)
}

func (self *TrackEncodedPixels) Len() int {
	return 8 + 12
}

func (self *TrackEncodedPixels) Children() []Atom {
	return nil
}

// The three aperture dimension atoms share one layout.
func unmarshalAperture(r io.ReadSeeker, tag Tag, pos *AtomPos, version *uint8, flags *uint32, width, height *Fixed32) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, tag); err != nil {
		return
	}
	pos.setPos(offset, int(size))
	n += 8
	if *version, err = ReadU8(r); err != nil {
		err = parseErr("Version", offset+int64(n), err)
		return
	}
	n += 1
	if *flags, err = ReadU24(r); err != nil {
		err = parseErr("Flags", offset+int64(n), err)
		return
	}
	n += 3
	if *width, err = ReadFixed32(r); err != nil {
		err = parseErr("Width", offset+int64(n), err)
		return
	}
	n += 4
	if *height, err = ReadFixed32(r); err != nil {
		err = parseErr("Height", offset+int64(n), err)
		return
	}
	n += 4
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func marshalAperture(w io.Writer, tag Tag, version uint8, flags uint32, width, height Fixed32) (n int, err error) {
	if err = WriteHeader(w, 8+12, tag); err != nil {
		return
	}
	n += 8
	if err = WriteU8(w, version); err != nil {
		return
	}
	n += 1
	if err = WriteU24(w, flags); err != nil {
		return
	}
	n += 3
	if err = WriteFixed32(w, width); err != nil {
		return
	}
	n += 4
	if err = WriteFixed32(w, height); err != nil {
		return
	}
	n += 4
	return
}

const MATT = Tag(0x6d617474)

type TrackMatte struct {
	Matte CompressedMatte
	AtomPos
}

func (self *TrackMatte) Tag() Tag {
	return MATT
}

func (self *TrackMatte) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MATT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenMatte bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("matt", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("matt", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case KMAT:
			if seenMatte {
				err = parseErr("kmat", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Matte.Unmarshal(r); err != nil {
				err = parseErr("kmat", offset+int64(n), err)
				return
			}
			seenMatte = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenMatte {
		err = parseErr("kmat", offset, ErrBadFormat)
		return
	}
	return
}

func (self *TrackMatte) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MATT); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Matte.Marshal(w); err != nil {
		return
	}
	n += nn
	return
}

func (self *TrackMatte) Len() int {
	return 8 + self.Matte.Len()
}

func (self *TrackMatte) Children() []Atom {
	return []Atom{&self.Matte}
}

const KMAT = Tag(0x6b6d6174)

// CompressedMatte carries the matte image description and matte data
// as one opaque blob.
type CompressedMatte struct {
	Version uint8
	Flags   uint32
	Data    [MaxMatteDataBytes]byte
	DataLen int
	AtomPos
}

func (self *CompressedMatte) Tag() Tag {
	return KMAT
}

func (self *CompressedMatte) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, KMAT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.Version, err = ReadU8(r); err != nil {
		err = parseErr("Version", offset+int64(n), err)
		return
	}
	n += 1
	if self.Flags, err = ReadU24(r); err != nil {
		err = parseErr("Flags", offset+int64(n), err)
		return
	}
	n += 3
	left := int(size) - n
	if left > MaxMatteDataBytes {
		err = parseErr("Data", offset+int64(n), ErrTooManyAtoms)
		return
	}
	if _, err = io.ReadFull(r, self.Data[:left]); err != nil {
		err = parseErr("Data", offset+int64(n), err)
		return
	}
	self.DataLen = left
	n += left
	return
}

func (self *CompressedMatte) Marshal(w io.Writer) (n int, err error) {
	if self.DataLen < 0 || self.DataLen > MaxMatteDataBytes {
		err = countErr("kmat", self.DataLen, MaxMatteDataBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), KMAT); err != nil {
		return
	}
	n += 8
	if err = WriteU8(w, self.Version); err != nil {
		return
	}
	n += 1
	if err = WriteU24(w, self.Flags); err != nil {
		return
	}
	n += 3
	if _, err = w.Write(self.Data[:self.DataLen]); err != nil {
		return
	}
	n += self.DataLen
	return
}

func (self *CompressedMatte) Len() int {
	return 8 + 4 + self.DataLen
}

func (self *CompressedMatte) Children() []Atom {
	return nil
}

const EDTS = Tag(0x65647473)

type Edit struct {
	List Optional[EditList]
	AtomPos
}

func (self *Edit) Tag() Tag {
	return EDTS
}

func (self *Edit) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, EDTS); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("edts", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("edts", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case ELST:
			if self.List.Present {
				err = parseErr("elst", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.List.Value.Unmarshal(r); err != nil {
				err = parseErr("elst", offset+int64(n), err)
				return
			}
			self.List.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	return
}

func (self *Edit) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), EDTS); err != nil {
		return
	}
	n += 8
	if self.List.Present {
		var nn int
		if nn, err = self.List.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *Edit) Len() (n int) {
	n += 8
	if self.List.Present {
		n += self.List.Value.Len()
	}
	return
}

func (self *Edit) Children() (r []Atom) {
	if self.List.Present {
		r = append(r, &self.List.Value)
	}
	return
}

const ELST = Tag(0x656c7374)

type EditListEntry struct {
	TrackDuration uint32
	MediaTime     int32
	MediaRate     Fixed32
}

type EditList struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxEditListEntries]EditListEntry
	EntryCount int
	AtomPos
}

func (self *EditList) Tag() Tag {
	return ELST
}

func (self *EditList) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, ELST); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.Version, err = ReadU8(r); err != nil {
		err = parseErr("Version", offset+int64(n), err)
		return
	}
	n += 1
	if self.Flags, err = ReadU24(r); err != nil {
		err = parseErr("Flags", offset+int64(n), err)
		return
	}
	n += 3
	var count uint32
	if count, err = ReadU32(r); err != nil {
		err = parseErr("EntryCount", offset+int64(n), err)
		return
	}
	n += 4
	if count > MaxEditListEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i].TrackDuration, err = ReadU32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].MediaTime, err = ReadI32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].MediaRate, err = ReadFixed32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
	}
	self.EntryCount = int(count)
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *EditList) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxEditListEntries {
		err = countErr("elst", self.EntryCount, MaxEditListEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), ELST); err != nil {
		return
	}
	n += 8
	if err = WriteU8(w, self.Version); err != nil {
		return
	}
	n += 1
	if err = WriteU24(w, self.Flags); err != nil {
		return
	}
	n += 3
	if err = WriteU32(w, uint32(self.EntryCount)); err != nil {
		return
	}
	n += 4
	for i := 0; i < self.EntryCount; i++ {
		if err = WriteU32(w, self.Entries[i].TrackDuration); err != nil {
			return
		}
		n += 4
		if err = WriteI32(w, self.Entries[i].MediaTime); err != nil {
			return
		}
		n += 4
		if err = WriteFixed32(w, self.Entries[i].MediaRate); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *EditList) Len() int {
	return 8 + 8 + 12*max(min(self.EntryCount, MaxEditListEntries), 0)
}

func (self *EditList) Children() []Atom {
	return nil
}

const TREF = Tag(0x74726566)

type TrackReference struct {
	Types     [MaxTrackReferenceTypes]TrackReferenceType
	TypeCount int
	AtomPos
}

func (self *TrackReference) Tag() Tag {
	return TREF
}

func (self *TrackReference) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, TREF); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("tref", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("tref", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		if self.TypeCount >= MaxTrackReferenceTypes {
			err = parseErr(childTag.String(), offset+int64(n), ErrTooManyAtoms)
			return
		}
		var nn int
		if nn, err = self.Types[self.TypeCount].Unmarshal(r); err != nil {
			err = parseErr(childTag.String(), offset+int64(n), err)
			return
		}
		self.TypeCount++
		n += nn
	}
	return
}

func (self *TrackReference) Marshal(w io.Writer) (n int, err error) {
	if self.TypeCount < 0 || self.TypeCount > MaxTrackReferenceTypes {
		err = countErr("tref", self.TypeCount, MaxTrackReferenceTypes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), TREF); err != nil {
		return
	}
	n += 8
	var nn int
	for i := 0; i < self.TypeCount; i++ {
		if nn, err = self.Types[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *TrackReference) Len() (n int) {
	n += 8
	for i := 0; i < min(self.TypeCount, MaxTrackReferenceTypes); i++ {
		n += self.Types[i].Len()
	}
	return
}

func (self *TrackReference) Children() (r []Atom) {
	for i := 0; i < min(self.TypeCount, MaxTrackReferenceTypes); i++ {
		r = append(r, &self.Types[i])
	}
	return
}

// TrackReferenceType groups the track ids referenced under one
// reference kind such as 'chap' or 'tmcd'.
type TrackReferenceType struct {
	Type     Tag
	TrackIds [MaxTrackReferenceIds]uint32
	IdCount  int
	AtomPos
}

func (self *TrackReferenceType) Tag() Tag {
	return self.Type
}

func (self *TrackReferenceType) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	if offset, err = tell(r); err != nil {
		return
	}
	var size uint32
	if size, self.Type, err = ReadHeader(r); err != nil {
		err = parseErr("tref", offset, err)
		return
	}
	if size < 8 || (size-8)%4 != 0 {
		err = parseErr(self.Type.String(), offset, ErrBadFormat)
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	count := int(size-8) / 4
	if count > MaxTrackReferenceIds {
		err = parseErr(self.Type.String(), offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < count; i++ {
		if self.TrackIds[i], err = ReadU32(r); err != nil {
			err = parseErr("TrackIds", offset+int64(n), err)
			return
		}
		n += 4
	}
	self.IdCount = count
	return
}

func (self *TrackReferenceType) Marshal(w io.Writer) (n int, err error) {
	if self.IdCount < 0 || self.IdCount > MaxTrackReferenceIds {
		err = countErr(self.Type.String(), self.IdCount, MaxTrackReferenceIds)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), self.Type); err != nil {
		return
	}
	n += 8
	for i := 0; i < self.IdCount; i++ {
		if err = WriteU32(w, self.TrackIds[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *TrackReferenceType) Len() int {
	return 8 + 4*max(min(self.IdCount, MaxTrackReferenceIds), 0)
}

func (self *TrackReferenceType) Children() []Atom {
	return nil
}

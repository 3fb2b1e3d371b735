package qtff

import (
	"io"
)

const MOOV = Tag(0x6d6f6f76)

type Movie struct {
	Header     MovieHeader
	Clipping   Optional[Clipping]
	Tracks     [MaxMovieTracks]Track
	TrackCount int
	UserData   Optional[UserData]
	ColorTable Optional[ColorTable]
	AtomPos
}

func (self *Movie) Tag() Tag {
	return MOOV
}

func (self *Movie) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MOOV); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenHeader bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("moov", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("moov", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case MVHD:
			if seenHeader {
				err = parseErr("mvhd", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				err = parseErr("mvhd", offset+int64(n), err)
				return
			}
			seenHeader = true
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
		case TRAK:
			if self.TrackCount >= MaxMovieTracks {
				err = parseErr("trak", offset+int64(n), ErrTooManyAtoms)
				return
			}
			if nn, err = self.Tracks[self.TrackCount].Unmarshal(r); err != nil {
				err = parseErr("trak", offset+int64(n), err)
				return
			}
			self.TrackCount++
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
		case CTAB:
			if self.ColorTable.Present {
				err = parseErr("ctab", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.ColorTable.Value.Unmarshal(r); err != nil {
				err = parseErr("ctab", offset+int64(n), err)
				return
			}
			self.ColorTable.Present = true
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
		err = parseErr("mvhd", offset, ErrBadFormat)
		return
	}
	return
}

func (self *Movie) Marshal(w io.Writer) (n int, err error) {
	if self.TrackCount < 0 || self.TrackCount > MaxMovieTracks {
		err = countErr("trak", self.TrackCount, MaxMovieTracks)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), MOOV); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.Clipping.Present {
		if nn, err = self.Clipping.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	for i := 0; i < self.TrackCount; i++ {
		if nn, err = self.Tracks[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.UserData.Present {
		if nn, err = self.UserData.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.ColorTable.Present {
		if nn, err = self.ColorTable.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *Movie) Len() (n int) {
	n += 8
	n += self.Header.Len()
	if self.Clipping.Present {
		n += self.Clipping.Value.Len()
	}
	for i := 0; i < min(self.TrackCount, MaxMovieTracks); i++ {
		n += self.Tracks[i].Len()
	}
	if self.UserData.Present {
		n += self.UserData.Value.Len()
	}
	if self.ColorTable.Present {
		n += self.ColorTable.Value.Len()
	}
	return
}

func (self *Movie) Children() (r []Atom) {
	r = append(r, &self.Header)
	if self.Clipping.Present {
		r = append(r, &self.Clipping.Value)
	}
	for i := 0; i < min(self.TrackCount, MaxMovieTracks); i++ {
		r = append(r, &self.Tracks[i])
	}
	if self.UserData.Present {
		r = append(r, &self.UserData.Value)
	}
	if self.ColorTable.Present {
		r = append(r, &self.ColorTable.Value)
	}
	return
}

const MVHD = Tag(0x6d766864)

// MovieHeader carries the movie-wide timing fields. Times count
// seconds since midnight January 1 1904 UTC.
type MovieHeader struct {
	Version           uint8
	Flags             uint32
	CreationTime      uint32
	ModificationTime  uint32
	TimeScale         uint32
	Duration          uint32
	PreferredRate     Fixed32
	PreferredVolume   Fixed16
	Matrix            [9]uint32
	PreviewTime       uint32
	PreviewDuration   uint32
	PosterTime        uint32
	SelectionTime     uint32
	SelectionDuration uint32
	CurrentTime       uint32
	NextTrackId       uint32
	AtomPos
}

func (self *MovieHeader) Tag() Tag {
	return MVHD
}

func (self *MovieHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MVHD); err != nil {
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
	if self.TimeScale, err = ReadU32(r); err != nil {
		err = parseErr("TimeScale", offset+int64(n), err)
		return
	}
	n += 4
	if self.Duration, err = ReadU32(r); err != nil {
		err = parseErr("Duration", offset+int64(n), err)
		return
	}
	n += 4
	if self.PreferredRate, err = ReadFixed32(r); err != nil {
		err = parseErr("PreferredRate", offset+int64(n), err)
		return
	}
	n += 4
	if self.PreferredVolume, err = ReadFixed16(r); err != nil {
		err = parseErr("PreferredVolume", offset+int64(n), err)
		return
	}
	n += 2
	if err = discard(r, 10); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 10
	for i := 0; i < len(self.Matrix); i++ {
		if self.Matrix[i], err = ReadU32(r); err != nil {
			err = parseErr("Matrix", offset+int64(n), err)
			return
		}
		n += 4
	}
	if self.PreviewTime, err = ReadU32(r); err != nil {
		err = parseErr("PreviewTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.PreviewDuration, err = ReadU32(r); err != nil {
		err = parseErr("PreviewDuration", offset+int64(n), err)
		return
	}
	n += 4
	if self.PosterTime, err = ReadU32(r); err != nil {
		err = parseErr("PosterTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.SelectionTime, err = ReadU32(r); err != nil {
		err = parseErr("SelectionTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.SelectionDuration, err = ReadU32(r); err != nil {
		err = parseErr("SelectionDuration", offset+int64(n), err)
		return
	}
	n += 4
	if self.CurrentTime, err = ReadU32(r); err != nil {
		err = parseErr("CurrentTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.NextTrackId, err = ReadU32(r); err != nil {
		err = parseErr("NextTrackId", offset+int64(n), err)
		return
	}
	n += 4
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *MovieHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MVHD); err != nil {
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
	if err = WriteU32(w, self.TimeScale); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.Duration); err != nil {
		return
	}
	n += 4
	if err = WriteFixed32(w, self.PreferredRate); err != nil {
		return
	}
	n += 4
	if err = WriteFixed16(w, self.PreferredVolume); err != nil {
		return
	}
	n += 2
	if err = writeZeros(w, 10); err != nil {
		return
	}
	n += 10
	for i := 0; i < len(self.Matrix); i++ {
		if err = WriteU32(w, self.Matrix[i]); err != nil {
			return
		}
		n += 4
	}
	if err = WriteU32(w, self.PreviewTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.PreviewDuration); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.PosterTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.SelectionTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.SelectionDuration); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.CurrentTime); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.NextTrackId); err != nil {
		return
	}
	n += 4
	return
}

func (self *MovieHeader) Len() int {
	return 8 + 100
}

func (self *MovieHeader) Children() []Atom {
	return nil
}

const CLIP = Tag(0x636c6970)

type Clipping struct {
	Region ClippingRegion
	AtomPos
}

func (self *Clipping) Tag() Tag {
	return CLIP
}

func (self *Clipping) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, CLIP); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenRegion bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("clip", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("clip", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case CRGN:
			if seenRegion {
				err = parseErr("crgn", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Region.Unmarshal(r); err != nil {
				err = parseErr("crgn", offset+int64(n), err)
				return
			}
			seenRegion = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenRegion {
		err = parseErr("crgn", offset, ErrBadFormat)
		return
	}
	return
}

func (self *Clipping) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), CLIP); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Region.Marshal(w); err != nil {
		return
	}
	n += nn
	return
}

func (self *Clipping) Len() int {
	return 8 + self.Region.Len()
}

func (self *Clipping) Children() []Atom {
	return []Atom{&self.Region}
}

const CRGN = Tag(0x6372676e)

type QuickDrawRect struct {
	Top    int16
	Left   int16
	Bottom int16
	Right  int16
}

// ClippingRegion holds a QuickDraw clipping region. The region size
// field on the wire covers itself, the enclosing rectangle and the
// opaque region data, so it is derived from DataLen when encoding.
type ClippingRegion struct {
	Rect    QuickDrawRect
	Data    [MaxRegionDataBytes]byte
	DataLen int
	AtomPos
}

func (self *ClippingRegion) Tag() Tag {
	return CRGN
}

func (self *ClippingRegion) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, CRGN); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var regionSize uint16
	if regionSize, err = ReadU16(r); err != nil {
		err = parseErr("RegionSize", offset+int64(n), err)
		return
	}
	n += 2
	if regionSize < 10 || int(size) != 8+int(regionSize) {
		err = parseErr("RegionSize", offset+int64(n), ErrBadFormat)
		return
	}
	if self.Rect.Top, err = ReadI16(r); err != nil {
		err = parseErr("Rect", offset+int64(n), err)
		return
	}
	n += 2
	if self.Rect.Left, err = ReadI16(r); err != nil {
		err = parseErr("Rect", offset+int64(n), err)
		return
	}
	n += 2
	if self.Rect.Bottom, err = ReadI16(r); err != nil {
		err = parseErr("Rect", offset+int64(n), err)
		return
	}
	n += 2
	if self.Rect.Right, err = ReadI16(r); err != nil {
		err = parseErr("Rect", offset+int64(n), err)
		return
	}
	n += 2
	left := int(regionSize) - 10
	if left > MaxRegionDataBytes {
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

func (self *ClippingRegion) Marshal(w io.Writer) (n int, err error) {
	if self.DataLen < 0 || self.DataLen > MaxRegionDataBytes {
		err = countErr("crgn", self.DataLen, MaxRegionDataBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), CRGN); err != nil {
		return
	}
	n += 8
	if err = WriteU16(w, uint16(10+self.DataLen)); err != nil {
		return
	}
	n += 2
	if err = WriteI16(w, self.Rect.Top); err != nil {
		return
	}
	n += 2
	if err = WriteI16(w, self.Rect.Left); err != nil {
		return
	}
	n += 2
	if err = WriteI16(w, self.Rect.Bottom); err != nil {
		return
	}
	n += 2
	if err = WriteI16(w, self.Rect.Right); err != nil {
		return
	}
	n += 2
	if _, err = w.Write(self.Data[:self.DataLen]); err != nil {
		return
	}
	n += self.DataLen
	return
}

func (self *ClippingRegion) Len() int {
	return 8 + 10 + self.DataLen
}

func (self *ClippingRegion) Children() []Atom {
	return nil
}

const UDTA = Tag(0x75647461)

// UserData is a catch-all container. Every child atom is retained as
// an item with its raw payload regardless of its type.
type UserData struct {
	Items     [MaxUserDataItems]UserDataItem
	ItemCount int
	AtomPos
}

func (self *UserData) Tag() Tag {
	return UDTA
}

func (self *UserData) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, UDTA); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("udta", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("udta", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		if self.ItemCount >= MaxUserDataItems {
			err = parseErr(childTag.String(), offset+int64(n), ErrTooManyAtoms)
			return
		}
		var nn int
		if nn, err = self.Items[self.ItemCount].Unmarshal(r); err != nil {
			err = parseErr(childTag.String(), offset+int64(n), err)
			return
		}
		self.ItemCount++
		n += nn
	}
	return
}

func (self *UserData) Marshal(w io.Writer) (n int, err error) {
	if self.ItemCount < 0 || self.ItemCount > MaxUserDataItems {
		err = countErr("udta", self.ItemCount, MaxUserDataItems)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), UDTA); err != nil {
		return
	}
	n += 8
	var nn int
	for i := 0; i < self.ItemCount; i++ {
		if nn, err = self.Items[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *UserData) Len() (n int) {
	n += 8
	for i := 0; i < min(self.ItemCount, MaxUserDataItems); i++ {
		n += self.Items[i].Len()
	}
	return
}

func (self *UserData) Children() (r []Atom) {
	for i := 0; i < min(self.ItemCount, MaxUserDataItems); i++ {
		r = append(r, &self.Items[i])
	}
	return
}

type UserDataItem struct {
	Type    Tag
	Data    [MaxUserDataBytes]byte
	DataLen int
	AtomPos
}

func (self *UserDataItem) Tag() Tag {
	return self.Type
}

func (self *UserDataItem) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	if offset, err = tell(r); err != nil {
		return
	}
	var size uint32
	if size, self.Type, err = ReadHeader(r); err != nil {
		err = parseErr("udta", offset, err)
		return
	}
	if size < 8 {
		err = parseErr(self.Type.String(), offset, ErrBadFormat)
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	left := int(size) - 8
	if left > MaxUserDataBytes {
		err = parseErr(self.Type.String(), offset+int64(n), ErrTooManyAtoms)
		return
	}
	if _, err = io.ReadFull(r, self.Data[:left]); err != nil {
		err = parseErr(self.Type.String(), offset+int64(n), err)
		return
	}
	self.DataLen = left
	n += left
	return
}

func (self *UserDataItem) Marshal(w io.Writer) (n int, err error) {
	if self.DataLen < 0 || self.DataLen > MaxUserDataBytes {
		err = countErr(self.Type.String(), self.DataLen, MaxUserDataBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), self.Type); err != nil {
		return
	}
	n += 8
	if _, err = w.Write(self.Data[:self.DataLen]); err != nil {
		return
	}
	n += self.DataLen
	return
}

func (self *UserDataItem) Len() int {
	return 8 + self.DataLen
}

func (self *UserDataItem) Children() []Atom {
	return nil
}

const CTAB = Tag(0x63746162)

type ColorSpec struct {
	Value int16
	Red   uint16
	Green uint16
	Blue  uint16
}

// ColorTable holds a movie color table. The wire format stores the
// color count minus one, so an encodable table has at least one color.
type ColorTable struct {
	Seed       uint32
	Flags      uint16
	Colors     [MaxColorTableColors]ColorSpec
	ColorCount int
	AtomPos
}

func (self *ColorTable) Tag() Tag {
	return CTAB
}

func (self *ColorTable) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, CTAB); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.Seed, err = ReadU32(r); err != nil {
		err = parseErr("Seed", offset+int64(n), err)
		return
	}
	n += 4
	if self.Flags, err = ReadU16(r); err != nil {
		err = parseErr("Flags", offset+int64(n), err)
		return
	}
	n += 2
	var sizeField uint16
	if sizeField, err = ReadU16(r); err != nil {
		err = parseErr("TableSize", offset+int64(n), err)
		return
	}
	n += 2
	count := int(sizeField) + 1
	if count > MaxColorTableColors {
		err = parseErr("TableSize", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < count; i++ {
		if self.Colors[i].Value, err = ReadI16(r); err != nil {
			err = parseErr("Colors", offset+int64(n), err)
			return
		}
		n += 2
		if self.Colors[i].Red, err = ReadU16(r); err != nil {
			err = parseErr("Colors", offset+int64(n), err)
			return
		}
		n += 2
		if self.Colors[i].Green, err = ReadU16(r); err != nil {
			err = parseErr("Colors", offset+int64(n), err)
			return
		}
		n += 2
		if self.Colors[i].Blue, err = ReadU16(r); err != nil {
			err = parseErr("Colors", offset+int64(n), err)
			return
		}
		n += 2
	}
	self.ColorCount = count
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *ColorTable) Marshal(w io.Writer) (n int, err error) {
	if self.ColorCount < 1 || self.ColorCount > MaxColorTableColors {
		err = countErr("ctab", self.ColorCount, MaxColorTableColors)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), CTAB); err != nil {
		return
	}
	n += 8
	if err = WriteU32(w, self.Seed); err != nil {
		return
	}
	n += 4
	if err = WriteU16(w, self.Flags); err != nil {
		return
	}
	n += 2
	if err = WriteU16(w, uint16(self.ColorCount-1)); err != nil {
		return
	}
	n += 2
	for i := 0; i < self.ColorCount; i++ {
		if err = WriteI16(w, self.Colors[i].Value); err != nil {
			return
		}
		n += 2
		if err = WriteU16(w, self.Colors[i].Red); err != nil {
			return
		}
		n += 2
		if err = WriteU16(w, self.Colors[i].Green); err != nil {
			return
		}
		n += 2
		if err = WriteU16(w, self.Colors[i].Blue); err != nil {
			return
		}
		n += 2
	}
	return
}

func (self *ColorTable) Len() int {
	return 8 + 8 + 8*max(min(self.ColorCount, MaxColorTableColors), 0)
}

func (self *ColorTable) Children() []Atom {
	return nil
}

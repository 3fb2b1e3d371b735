package qtff

import (
	"io"
)

const MDIA = Tag(0x6d646961)

type Media struct {
	Header   MediaHeader
	Handler  HandlerReference
	Info     Optional[MediaInformation]
	UserData Optional[UserData]
	AtomPos
}

func (self *Media) Tag() Tag {
	return MDIA
}

// Unmarshal decodes a media atom. The media information atom has no
// self-describing layout, so a minf child appearing before the
// handler reference that names its shape is rejected.
func (self *Media) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MDIA); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenHeader, seenHandler bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("mdia", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("mdia", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case MDHD:
			if seenHeader {
				err = parseErr("mdhd", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				err = parseErr("mdhd", offset+int64(n), err)
				return
			}
			seenHeader = true
		case HDLR:
			if seenHandler {
				err = parseErr("hdlr", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Handler.Unmarshal(r); err != nil {
				err = parseErr("hdlr", offset+int64(n), err)
				return
			}
			seenHandler = true
		case MINF:
			if self.Info.Present || !seenHandler {
				err = parseErr("minf", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Info.Value.Unmarshal(r, self.Handler.ComponentSubtype); err != nil {
				err = parseErr("minf", offset+int64(n), err)
				return
			}
			self.Info.Present = true
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
		err = parseErr("mdhd", offset, ErrBadFormat)
		return
	}
	if !seenHandler {
		err = parseErr("hdlr", offset, ErrBadFormat)
		return
	}
	return
}

func (self *Media) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MDIA); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.Handler.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.Info.Present {
		if nn, err = self.Info.Value.Marshal(w); err != nil {
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
	return
}

func (self *Media) Len() (n int) {
	n += 8
	n += self.Header.Len()
	n += self.Handler.Len()
	if self.Info.Present {
		n += self.Info.Value.Len()
	}
	if self.UserData.Present {
		n += self.UserData.Value.Len()
	}
	return
}

func (self *Media) Children() (r []Atom) {
	r = append(r, &self.Header)
	r = append(r, &self.Handler)
	if self.Info.Present {
		r = append(r, &self.Info.Value)
	}
	if self.UserData.Present {
		r = append(r, &self.UserData.Value)
	}
	return
}

const MDHD = Tag(0x6d646864)

type MediaHeader struct {
	Version          uint8
	Flags            uint32
	CreationTime     uint32
	ModificationTime uint32
	TimeScale        uint32
	Duration         uint32
	Language         uint16
	Quality          uint16
	AtomPos
}

func (self *MediaHeader) Tag() Tag {
	return MDHD
}

func (self *MediaHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MDHD); err != nil {
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
	if self.Language, err = ReadU16(r); err != nil {
		err = parseErr("Language", offset+int64(n), err)
		return
	}
	n += 2
	if self.Quality, err = ReadU16(r); err != nil {
		err = parseErr("Quality", offset+int64(n), err)
		return
	}
	n += 2
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *MediaHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MDHD); err != nil {
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
	if err = WriteU16(w, self.Language); err != nil {
		return
	}
	n += 2
	if err = WriteU16(w, self.Quality); err != nil {
		return
	}
	n += 2
	return
}

func (self *MediaHeader) Len() int {
	return 8 + 24
}

func (self *MediaHeader) Children() []Atom {
	return nil
}

const HDLR = Tag(0x68646c72)

var (
	HandlerMedia = FourCC{'m', 'h', 'l', 'r'}
	HandlerData  = FourCC{'d', 'h', 'l', 'r'}
	HandlerVideo = FourCC{'v', 'i', 'd', 'e'}
	HandlerSound = FourCC{'s', 'o', 'u', 'n'}
)

type HandlerReference struct {
	Version               uint8
	Flags                 uint32
	ComponentType         FourCC
	ComponentSubtype      FourCC
	ComponentManufacturer uint32
	ComponentFlags        uint32
	ComponentFlagsMask    uint32
	ComponentName         [MaxComponentNameBytes]byte
	NameLen               int
	AtomPos
}

func (self *HandlerReference) Tag() Tag {
	return HDLR
}

func (self *HandlerReference) Name() string {
	return string(self.ComponentName[:min(max(self.NameLen, 0), MaxComponentNameBytes)])
}

func (self *HandlerReference) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, HDLR); err != nil {
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
	if self.ComponentType, err = ReadFourCC(r); err != nil {
		err = parseErr("ComponentType", offset+int64(n), err)
		return
	}
	n += 4
	if self.ComponentSubtype, err = ReadFourCC(r); err != nil {
		err = parseErr("ComponentSubtype", offset+int64(n), err)
		return
	}
	n += 4
	if self.ComponentManufacturer, err = ReadU32(r); err != nil {
		err = parseErr("ComponentManufacturer", offset+int64(n), err)
		return
	}
	n += 4
	if self.ComponentFlags, err = ReadU32(r); err != nil {
		err = parseErr("ComponentFlags", offset+int64(n), err)
		return
	}
	n += 4
	if self.ComponentFlagsMask, err = ReadU32(r); err != nil {
		err = parseErr("ComponentFlagsMask", offset+int64(n), err)
		return
	}
	n += 4
	left := int(size) - n
	if left > MaxComponentNameBytes {
		err = parseErr("ComponentName", offset+int64(n), ErrTooManyAtoms)
		return
	}
	if _, err = io.ReadFull(r, self.ComponentName[:left]); err != nil {
		err = parseErr("ComponentName", offset+int64(n), err)
		return
	}
	self.NameLen = left
	n += left
	return
}

func (self *HandlerReference) Marshal(w io.Writer) (n int, err error) {
	if self.NameLen < 0 || self.NameLen > MaxComponentNameBytes {
		err = countErr("hdlr", self.NameLen, MaxComponentNameBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), HDLR); err != nil {
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
	if err = WriteFourCC(w, self.ComponentType); err != nil {
		return
	}
	n += 4
	if err = WriteFourCC(w, self.ComponentSubtype); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.ComponentManufacturer); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.ComponentFlags); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.ComponentFlagsMask); err != nil {
		return
	}
	n += 4
	if _, err = w.Write(self.ComponentName[:self.NameLen]); err != nil {
		return
	}
	n += self.NameLen
	return
}

func (self *HandlerReference) Len() int {
	return 8 + 24 + min(max(self.NameLen, 0), MaxComponentNameBytes)
}

func (self *HandlerReference) Children() []Atom {
	return nil
}

const MINF = Tag(0x6d696e66)

// MediaInfoKind selects which of the three media information layouts
// a minf atom carries. The layout is not self-describing, it is named
// by the component subtype of the sibling handler reference.
type MediaInfoKind int

const (
	MediaInfoBase MediaInfoKind = iota
	MediaInfoVideo
	MediaInfoSound
)

func (self MediaInfoKind) String() string {
	switch self {
	case MediaInfoVideo:
		return "video"
	case MediaInfoSound:
		return "sound"
	}
	return "base"
}

// MediaInformation is the one context-dependent atom of the format.
// Exactly one of Video, Sound and Base is meaningful, named by Kind.
type MediaInformation struct {
	Kind  MediaInfoKind
	Video VideoMediaInformation
	Sound SoundMediaInformation
	Base  BaseMediaInformation
	AtomPos
}

func (self *MediaInformation) Tag() Tag {
	return MINF
}

// Unmarshal decodes a minf atom laid out for the given handler
// component subtype. It does not satisfy the Atom unmarshalling shape
// on purpose, decoding cannot proceed without the subtype.
func (self *MediaInformation) Unmarshal(r io.ReadSeeker, subtype FourCC) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MINF); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	switch subtype {
	case HandlerVideo:
		self.Kind = MediaInfoVideo
		n, err = self.Video.unmarshal(r, offset, int(size), n)
	case HandlerSound:
		self.Kind = MediaInfoSound
		n, err = self.Sound.unmarshal(r, offset, int(size), n)
	default:
		self.Kind = MediaInfoBase
		n, err = self.Base.unmarshal(r, offset, int(size), n)
	}
	return
}

func (self *MediaInformation) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MINF); err != nil {
		return
	}
	n += 8
	var nn int
	switch self.Kind {
	case MediaInfoVideo:
		nn, err = self.Video.marshal(w)
	case MediaInfoSound:
		nn, err = self.Sound.marshal(w)
	default:
		nn, err = self.Base.marshal(w)
	}
	n += nn
	return
}

func (self *MediaInformation) Len() int {
	switch self.Kind {
	case MediaInfoVideo:
		return 8 + self.Video.len()
	case MediaInfoSound:
		return 8 + self.Sound.len()
	}
	return 8 + self.Base.len()
}

func (self *MediaInformation) Children() []Atom {
	switch self.Kind {
	case MediaInfoVideo:
		return self.Video.children()
	case MediaInfoSound:
		return self.Sound.children()
	}
	return self.Base.children()
}

type VideoMediaInformation struct {
	Header      VideoMediaHeader
	Handler     HandlerReference
	DataInfo    Optional[DataInformation]
	SampleTable Optional[SampleTable]
}

func (self *VideoMediaInformation) unmarshal(r io.ReadSeeker, offset int64, size, n int) (int, error) {
	var err error
	var seenHeader, seenHandler bool
	for n < size {
		if size-n < 8 {
			return n, parseErr("minf", offset+int64(n), ErrBadFormat)
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			return n, parseErr("minf", offset+int64(n), err)
		}
		if childSize < 8 || int(childSize) > size-n {
			return n, parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
		}
		var nn int
		switch childTag {
		case VMHD:
			if seenHeader {
				return n, parseErr("vmhd", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				return n, parseErr("vmhd", offset+int64(n), err)
			}
			seenHeader = true
		case HDLR:
			if seenHandler {
				return n, parseErr("hdlr", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Handler.Unmarshal(r); err != nil {
				return n, parseErr("hdlr", offset+int64(n), err)
			}
			seenHandler = true
		case DINF:
			if self.DataInfo.Present {
				return n, parseErr("dinf", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.DataInfo.Value.Unmarshal(r); err != nil {
				return n, parseErr("dinf", offset+int64(n), err)
			}
			self.DataInfo.Present = true
		case STBL:
			if self.SampleTable.Present {
				return n, parseErr("stbl", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.SampleTable.Value.Unmarshal(r); err != nil {
				return n, parseErr("stbl", offset+int64(n), err)
			}
			self.SampleTable.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				return n, parseErr(childTag.String(), offset+int64(n), err)
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenHeader {
		return n, parseErr("vmhd", offset, ErrBadFormat)
	}
	if !seenHandler {
		return n, parseErr("hdlr", offset, ErrBadFormat)
	}
	return n, nil
}

func (self *VideoMediaInformation) marshal(w io.Writer) (n int, err error) {
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.Handler.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.DataInfo.Present {
		if nn, err = self.DataInfo.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.SampleTable.Present {
		if nn, err = self.SampleTable.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *VideoMediaInformation) len() (n int) {
	n += self.Header.Len()
	n += self.Handler.Len()
	if self.DataInfo.Present {
		n += self.DataInfo.Value.Len()
	}
	if self.SampleTable.Present {
		n += self.SampleTable.Value.Len()
	}
	return
}

func (self *VideoMediaInformation) children() (r []Atom) {
	r = append(r, &self.Header)
	r = append(r, &self.Handler)
	if self.DataInfo.Present {
		r = append(r, &self.DataInfo.Value)
	}
	if self.SampleTable.Present {
		r = append(r, &self.SampleTable.Value)
	}
	return
}

type SoundMediaInformation struct {
	Header      SoundMediaHeader
	Handler     HandlerReference
	DataInfo    Optional[DataInformation]
	SampleTable Optional[SampleTable]
}

func (self *SoundMediaInformation) unmarshal(r io.ReadSeeker, offset int64, size, n int) (int, error) {
	var err error
	var seenHeader, seenHandler bool
	for n < size {
		if size-n < 8 {
			return n, parseErr("minf", offset+int64(n), ErrBadFormat)
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			return n, parseErr("minf", offset+int64(n), err)
		}
		if childSize < 8 || int(childSize) > size-n {
			return n, parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
		}
		var nn int
		switch childTag {
		case SMHD:
			if seenHeader {
				return n, parseErr("smhd", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				return n, parseErr("smhd", offset+int64(n), err)
			}
			seenHeader = true
		case HDLR:
			if seenHandler {
				return n, parseErr("hdlr", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Handler.Unmarshal(r); err != nil {
				return n, parseErr("hdlr", offset+int64(n), err)
			}
			seenHandler = true
		case DINF:
			if self.DataInfo.Present {
				return n, parseErr("dinf", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.DataInfo.Value.Unmarshal(r); err != nil {
				return n, parseErr("dinf", offset+int64(n), err)
			}
			self.DataInfo.Present = true
		case STBL:
			if self.SampleTable.Present {
				return n, parseErr("stbl", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.SampleTable.Value.Unmarshal(r); err != nil {
				return n, parseErr("stbl", offset+int64(n), err)
			}
			self.SampleTable.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				return n, parseErr(childTag.String(), offset+int64(n), err)
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenHeader {
		return n, parseErr("smhd", offset, ErrBadFormat)
	}
	if !seenHandler {
		return n, parseErr("hdlr", offset, ErrBadFormat)
	}
	return n, nil
}

func (self *SoundMediaInformation) marshal(w io.Writer) (n int, err error) {
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.Handler.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.DataInfo.Present {
		if nn, err = self.DataInfo.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.SampleTable.Present {
		if nn, err = self.SampleTable.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *SoundMediaInformation) len() (n int) {
	n += self.Header.Len()
	n += self.Handler.Len()
	if self.DataInfo.Present {
		n += self.DataInfo.Value.Len()
	}
	if self.SampleTable.Present {
		n += self.SampleTable.Value.Len()
	}
	return
}

func (self *SoundMediaInformation) children() (r []Atom) {
	r = append(r, &self.Header)
	r = append(r, &self.Handler)
	if self.DataInfo.Present {
		r = append(r, &self.DataInfo.Value)
	}
	if self.SampleTable.Present {
		r = append(r, &self.SampleTable.Value)
	}
	return
}

type BaseMediaInformation struct {
	Header   BaseMediaHeader
	Handler  Optional[HandlerReference]
	DataInfo Optional[DataInformation]
}

func (self *BaseMediaInformation) unmarshal(r io.ReadSeeker, offset int64, size, n int) (int, error) {
	var err error
	var seenHeader bool
	for n < size {
		if size-n < 8 {
			return n, parseErr("minf", offset+int64(n), ErrBadFormat)
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			return n, parseErr("minf", offset+int64(n), err)
		}
		if childSize < 8 || int(childSize) > size-n {
			return n, parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
		}
		var nn int
		switch childTag {
		case GMHD:
			if seenHeader {
				return n, parseErr("gmhd", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Header.Unmarshal(r); err != nil {
				return n, parseErr("gmhd", offset+int64(n), err)
			}
			seenHeader = true
		case HDLR:
			if self.Handler.Present {
				return n, parseErr("hdlr", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.Handler.Value.Unmarshal(r); err != nil {
				return n, parseErr("hdlr", offset+int64(n), err)
			}
			self.Handler.Present = true
		case DINF:
			if self.DataInfo.Present {
				return n, parseErr("dinf", offset+int64(n), ErrBadFormat)
			}
			if nn, err = self.DataInfo.Value.Unmarshal(r); err != nil {
				return n, parseErr("dinf", offset+int64(n), err)
			}
			self.DataInfo.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				return n, parseErr(childTag.String(), offset+int64(n), err)
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenHeader {
		return n, parseErr("gmhd", offset, ErrBadFormat)
	}
	return n, nil
}

func (self *BaseMediaInformation) marshal(w io.Writer) (n int, err error) {
	var nn int
	if nn, err = self.Header.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.Handler.Present {
		if nn, err = self.Handler.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.DataInfo.Present {
		if nn, err = self.DataInfo.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *BaseMediaInformation) len() (n int) {
	n += self.Header.Len()
	if self.Handler.Present {
		n += self.Handler.Value.Len()
	}
	if self.DataInfo.Present {
		n += self.DataInfo.Value.Len()
	}
	return
}

func (self *BaseMediaInformation) children() (r []Atom) {
	r = append(r, &self.Header)
	if self.Handler.Present {
		r = append(r, &self.Handler.Value)
	}
	if self.DataInfo.Present {
		r = append(r, &self.DataInfo.Value)
	}
	return
}

const VMHD = Tag(0x766d6864)

type VideoMediaHeader struct {
	Version      uint8
	Flags        uint32
	GraphicsMode uint16
	OpColor      [3]uint16
	AtomPos
}

func (self *VideoMediaHeader) Tag() Tag {
	return VMHD
}

func (self *VideoMediaHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, VMHD); err != nil {
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
	if self.GraphicsMode, err = ReadU16(r); err != nil {
		err = parseErr("GraphicsMode", offset+int64(n), err)
		return
	}
	n += 2
	for i := 0; i < len(self.OpColor); i++ {
		if self.OpColor[i], err = ReadU16(r); err != nil {
			err = parseErr("OpColor", offset+int64(n), err)
			return
		}
		n += 2
	}
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *VideoMediaHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), VMHD); err != nil {
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
	if err = WriteU16(w, self.GraphicsMode); err != nil {
		return
	}
	n += 2
	for i := 0; i < len(self.OpColor); i++ {
		if err = WriteU16(w, self.OpColor[i]); err != nil {
			return
		}
		n += 2
	}
	return
}

func (self *VideoMediaHeader) Len() int {
	return 8 + 12
}

func (self *VideoMediaHeader) Children() []Atom {
	return nil
}

const SMHD = Tag(0x736d6864)

type SoundMediaHeader struct {
	Version uint8
	Flags   uint32
	Balance Fixed16
	AtomPos
}

func (self *SoundMediaHeader) Tag() Tag {
	return SMHD
}

func (self *SoundMediaHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, SMHD); err != nil {
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
	if self.Balance, err = ReadFixed16(r); err != nil {
		err = parseErr("Balance", offset+int64(n), err)
		return
	}
	n += 2
	if err = discard(r, 2); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 2
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *SoundMediaHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), SMHD); err != nil {
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
	if err = WriteFixed16(w, self.Balance); err != nil {
		return
	}
	n += 2
	if err = writeZeros(w, 2); err != nil {
		return
	}
	n += 2
	return
}

func (self *SoundMediaHeader) Len() int {
	return 8 + 8
}

func (self *SoundMediaHeader) Children() []Atom {
	return nil
}

const GMHD = Tag(0x676d6864)

type BaseMediaHeader struct {
	Info BaseMediaInfo
	Text Optional[TextMediaInformation]
	AtomPos
}

func (self *BaseMediaHeader) Tag() Tag {
	return GMHD
}

func (self *BaseMediaHeader) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, GMHD); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenInfo bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("gmhd", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("gmhd", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case GMIN:
			if seenInfo {
				err = parseErr("gmin", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Info.Unmarshal(r); err != nil {
				err = parseErr("gmin", offset+int64(n), err)
				return
			}
			seenInfo = true
		case TEXT:
			if self.Text.Present {
				err = parseErr("text", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Text.Value.Unmarshal(r); err != nil {
				err = parseErr("text", offset+int64(n), err)
				return
			}
			self.Text.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenInfo {
		err = parseErr("gmin", offset, ErrBadFormat)
		return
	}
	return
}

func (self *BaseMediaHeader) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), GMHD); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Info.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.Text.Present {
		if nn, err = self.Text.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *BaseMediaHeader) Len() (n int) {
	n += 8
	n += self.Info.Len()
	if self.Text.Present {
		n += self.Text.Value.Len()
	}
	return
}

func (self *BaseMediaHeader) Children() (r []Atom) {
	r = append(r, &self.Info)
	if self.Text.Present {
		r = append(r, &self.Text.Value)
	}
	return
}

const GMIN = Tag(0x676d696e)

type BaseMediaInfo struct {
	Version      uint8
	Flags        uint32
	GraphicsMode uint16
	OpColor      [3]uint16
	Balance      Fixed16
	AtomPos
}

func (self *BaseMediaInfo) Tag() Tag {
	return GMIN
}

func (self *BaseMediaInfo) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, GMIN); err != nil {
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
	if self.GraphicsMode, err = ReadU16(r); err != nil {
		err = parseErr("GraphicsMode", offset+int64(n), err)
		return
	}
	n += 2
	for i := 0; i < len(self.OpColor); i++ {
		if self.OpColor[i], err = ReadU16(r); err != nil {
			err = parseErr("OpColor", offset+int64(n), err)
			return
		}
		n += 2
	}
	if self.Balance, err = ReadFixed16(r); err != nil {
		err = parseErr("Balance", offset+int64(n), err)
		return
	}
	n += 2
	if err = discard(r, 2); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 2
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *BaseMediaInfo) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), GMIN); err != nil {
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
	if err = WriteU16(w, self.GraphicsMode); err != nil {
		return
	}
	n += 2
	for i := 0; i < len(self.OpColor); i++ {
		if err = WriteU16(w, self.OpColor[i]); err != nil {
			return
		}
		n += 2
	}
	if err = WriteFixed16(w, self.Balance); err != nil {
		return
	}
	n += 2
	if err = writeZeros(w, 2); err != nil {
		return
	}
	n += 2
	return
}

func (self *BaseMediaInfo) Len() int {
	return 8 + 16
}

func (self *BaseMediaInfo) Children() []Atom {
	return nil
}

const TEXT = Tag(0x74657874)

type TextMediaInformation struct {
	Matrix [9]uint32
	AtomPos
}

func (self *TextMediaInformation) Tag() Tag {
	return TEXT
}

func (self *TextMediaInformation) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, TEXT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	for i := 0; i < len(self.Matrix); i++ {
		if self.Matrix[i], err = ReadU32(r); err != nil {
			err = parseErr("Matrix", offset+int64(n), err)
			return
		}
		n += 4
	}
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *TextMediaInformation) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), TEXT); err != nil {
		return
	}
	n += 8
	for i := 0; i < len(self.Matrix); i++ {
		if err = WriteU32(w, self.Matrix[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *TextMediaInformation) Len() int {
	return 8 + 36
}

func (self *TextMediaInformation) Children() []Atom {
	return nil
}

const DINF = Tag(0x64696e66)

type DataInformation struct {
	Refer DataReferenceList
	AtomPos
}

func (self *DataInformation) Tag() Tag {
	return DINF
}

func (self *DataInformation) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, DINF); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenRefer bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("dinf", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("dinf", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case DREF:
			if seenRefer {
				err = parseErr("dref", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Refer.Unmarshal(r); err != nil {
				err = parseErr("dref", offset+int64(n), err)
				return
			}
			seenRefer = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenRefer {
		err = parseErr("dref", offset, ErrBadFormat)
		return
	}
	return
}

func (self *DataInformation) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), DINF); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Refer.Marshal(w); err != nil {
		return
	}
	n += nn
	return
}

func (self *DataInformation) Len() int {
	return 8 + self.Refer.Len()
}

func (self *DataInformation) Children() []Atom {
	return []Atom{&self.Refer}
}

const DREF = Tag(0x64726566)

const (
	URL  = Tag(0x75726c20)
	ALIS = Tag(0x616c6973)
	RSRC = Tag(0x72737263)
)

// DataReferenceList holds dref. The declared entry count must match
// the entries actually present.
type DataReferenceList struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxDataReferences]DataReference
	EntryCount int
	AtomPos
}

func (self *DataReferenceList) Tag() Tag {
	return DREF
}

func (self *DataReferenceList) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, DREF); err != nil {
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
	if count > MaxDataReferences {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	decoded := 0
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("dref", offset+int64(n), ErrBadFormat)
			return
		}
		if decoded >= int(count) {
			err = parseErr("EntryCount", offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		if nn, err = self.Entries[decoded].Unmarshal(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		decoded++
		n += nn
	}
	if decoded != int(count) {
		err = parseErr("EntryCount", offset, ErrBadFormat)
		return
	}
	self.EntryCount = decoded
	return
}

func (self *DataReferenceList) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxDataReferences {
		err = countErr("dref", self.EntryCount, MaxDataReferences)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), DREF); err != nil {
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
	var nn int
	for i := 0; i < self.EntryCount; i++ {
		if nn, err = self.Entries[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *DataReferenceList) Len() (n int) {
	n += 8 + 8
	for i := 0; i < min(self.EntryCount, MaxDataReferences); i++ {
		n += self.Entries[i].Len()
	}
	return
}

func (self *DataReferenceList) Children() (r []Atom) {
	for i := 0; i < min(self.EntryCount, MaxDataReferences); i++ {
		r = append(r, &self.Entries[i])
	}
	return
}

// DataReference is one dref entry such as a 'url ' or 'alis'
// reference. The reference body is kept opaque.
type DataReference struct {
	Type    Tag
	Version uint8
	Flags   uint32
	Data    [MaxDataReferenceBytes]byte
	DataLen int
	AtomPos
}

func (self *DataReference) Tag() Tag {
	return self.Type
}

func (self *DataReference) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	if offset, err = tell(r); err != nil {
		return
	}
	var size uint32
	if size, self.Type, err = ReadHeader(r); err != nil {
		err = parseErr("dref", offset, err)
		return
	}
	if size < 12 {
		err = parseErr(self.Type.String(), offset, ErrBadFormat)
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
	if left > MaxDataReferenceBytes {
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

func (self *DataReference) Marshal(w io.Writer) (n int, err error) {
	if self.DataLen < 0 || self.DataLen > MaxDataReferenceBytes {
		err = countErr(self.Type.String(), self.DataLen, MaxDataReferenceBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), self.Type); err != nil {
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

func (self *DataReference) Len() int {
	return 8 + 4 + self.DataLen
}

func (self *DataReference) Children() []Atom {
	return nil
}

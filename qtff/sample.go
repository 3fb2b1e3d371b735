package qtff

import (
	"io"
)

const STBL = Tag(0x7374626c)

type SampleTable struct {
	Descriptions       SampleDescriptionTable
	TimeToSample       TimeToSample
	CompositionOffsets Optional[CompositionOffset]
	SyncSamples        Optional[SyncSample]
	PartialSyncSamples Optional[PartialSyncSample]
	SampleToChunk      Optional[SampleToChunk]
	SampleSizes        Optional[SampleSize]
	ChunkOffsets       Optional[ChunkOffset]
	Dependencies       Optional[SampleDependency]
	AtomPos
}

func (self *SampleTable) Tag() Tag {
	return STBL
}

func (self *SampleTable) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STBL); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	var seenDesc, seenTimeToSample bool
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("stbl", offset+int64(n), ErrBadFormat)
			return
		}
		var childSize uint32
		var childTag Tag
		if childSize, childTag, err = PeekHeader(r); err != nil {
			err = parseErr("stbl", offset+int64(n), err)
			return
		}
		if childSize < 8 || int(childSize) > int(size)-n {
			err = parseErr(childTag.String(), offset+int64(n), ErrBadFormat)
			return
		}
		var nn int
		switch childTag {
		case STSD:
			if seenDesc {
				err = parseErr("stsd", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Descriptions.Unmarshal(r); err != nil {
				err = parseErr("stsd", offset+int64(n), err)
				return
			}
			seenDesc = true
		case STTS:
			if seenTimeToSample {
				err = parseErr("stts", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.TimeToSample.Unmarshal(r); err != nil {
				err = parseErr("stts", offset+int64(n), err)
				return
			}
			seenTimeToSample = true
		case CTTS:
			if self.CompositionOffsets.Present {
				err = parseErr("ctts", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.CompositionOffsets.Value.Unmarshal(r); err != nil {
				err = parseErr("ctts", offset+int64(n), err)
				return
			}
			self.CompositionOffsets.Present = true
		case STSS:
			if self.SyncSamples.Present {
				err = parseErr("stss", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.SyncSamples.Value.Unmarshal(r); err != nil {
				err = parseErr("stss", offset+int64(n), err)
				return
			}
			self.SyncSamples.Present = true
		case STPS:
			if self.PartialSyncSamples.Present {
				err = parseErr("stps", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.PartialSyncSamples.Value.Unmarshal(r); err != nil {
				err = parseErr("stps", offset+int64(n), err)
				return
			}
			self.PartialSyncSamples.Present = true
		case STSC:
			if self.SampleToChunk.Present {
				err = parseErr("stsc", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.SampleToChunk.Value.Unmarshal(r); err != nil {
				err = parseErr("stsc", offset+int64(n), err)
				return
			}
			self.SampleToChunk.Present = true
		case STSZ:
			if self.SampleSizes.Present {
				err = parseErr("stsz", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.SampleSizes.Value.Unmarshal(r); err != nil {
				err = parseErr("stsz", offset+int64(n), err)
				return
			}
			self.SampleSizes.Present = true
		case STCO:
			if self.ChunkOffsets.Present {
				err = parseErr("stco", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.ChunkOffsets.Value.Unmarshal(r); err != nil {
				err = parseErr("stco", offset+int64(n), err)
				return
			}
			self.ChunkOffsets.Present = true
		case SDTP:
			if self.Dependencies.Present {
				err = parseErr("sdtp", offset+int64(n), ErrBadFormat)
				return
			}
			if nn, err = self.Dependencies.Value.Unmarshal(r); err != nil {
				err = parseErr("sdtp", offset+int64(n), err)
				return
			}
			self.Dependencies.Present = true
		default:
			if err = discard(r, int(childSize)); err != nil {
				err = parseErr(childTag.String(), offset+int64(n), err)
				return
			}
			nn = int(childSize)
		}
		n += nn
	}
	if !seenDesc {
		err = parseErr("stsd", offset, ErrBadFormat)
		return
	}
	if !seenTimeToSample {
		err = parseErr("stts", offset, ErrBadFormat)
		return
	}
	return
}

func (self *SampleTable) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), STBL); err != nil {
		return
	}
	n += 8
	var nn int
	if nn, err = self.Descriptions.Marshal(w); err != nil {
		return
	}
	n += nn
	if nn, err = self.TimeToSample.Marshal(w); err != nil {
		return
	}
	n += nn
	if self.CompositionOffsets.Present {
		if nn, err = self.CompositionOffsets.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.SyncSamples.Present {
		if nn, err = self.SyncSamples.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.PartialSyncSamples.Present {
		if nn, err = self.PartialSyncSamples.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.SampleToChunk.Present {
		if nn, err = self.SampleToChunk.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.SampleSizes.Present {
		if nn, err = self.SampleSizes.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.ChunkOffsets.Present {
		if nn, err = self.ChunkOffsets.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.Dependencies.Present {
		if nn, err = self.Dependencies.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *SampleTable) Len() (n int) {
	n += 8
	n += self.Descriptions.Len()
	n += self.TimeToSample.Len()
	if self.CompositionOffsets.Present {
		n += self.CompositionOffsets.Value.Len()
	}
	if self.SyncSamples.Present {
		n += self.SyncSamples.Value.Len()
	}
	if self.PartialSyncSamples.Present {
		n += self.PartialSyncSamples.Value.Len()
	}
	if self.SampleToChunk.Present {
		n += self.SampleToChunk.Value.Len()
	}
	if self.SampleSizes.Present {
		n += self.SampleSizes.Value.Len()
	}
	if self.ChunkOffsets.Present {
		n += self.ChunkOffsets.Value.Len()
	}
	if self.Dependencies.Present {
		n += self.Dependencies.Value.Len()
	}
	return
}

func (self *SampleTable) Children() (r []Atom) {
	r = append(r, &self.Descriptions)
	r = append(r, &self.TimeToSample)
	if self.CompositionOffsets.Present {
		r = append(r, &self.CompositionOffsets.Value)
	}
	if self.SyncSamples.Present {
		r = append(r, &self.SyncSamples.Value)
	}
	if self.PartialSyncSamples.Present {
		r = append(r, &self.PartialSyncSamples.Value)
	}
	if self.SampleToChunk.Present {
		r = append(r, &self.SampleToChunk.Value)
	}
	if self.SampleSizes.Present {
		r = append(r, &self.SampleSizes.Value)
	}
	if self.ChunkOffsets.Present {
		r = append(r, &self.ChunkOffsets.Value)
	}
	if self.Dependencies.Present {
		r = append(r, &self.Dependencies.Value)
	}
	return
}

const STSD = Tag(0x73747364)

// SampleDescriptionTable holds stsd. The declared entry count must
// match the entries actually present.
type SampleDescriptionTable struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxSampleDescriptions]SampleDescription
	EntryCount int
	AtomPos
}

func (self *SampleDescriptionTable) Tag() Tag {
	return STSD
}

func (self *SampleDescriptionTable) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STSD); err != nil {
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
	if count > MaxSampleDescriptions {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	decoded := 0
	for n < int(size) {
		if int(size)-n < 8 {
			err = parseErr("stsd", offset+int64(n), ErrBadFormat)
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

func (self *SampleDescriptionTable) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxSampleDescriptions {
		err = countErr("stsd", self.EntryCount, MaxSampleDescriptions)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STSD); err != nil {
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

func (self *SampleDescriptionTable) Len() (n int) {
	n += 8 + 8
	for i := 0; i < min(self.EntryCount, MaxSampleDescriptions); i++ {
		n += self.Entries[i].Len()
	}
	return
}

func (self *SampleDescriptionTable) Children() (r []Atom) {
	for i := 0; i < min(self.EntryCount, MaxSampleDescriptions); i++ {
		r = append(r, &self.Entries[i])
	}
	return
}

// SampleDescription is one stsd entry. The format-specific tail after
// the data reference index is kept opaque.
type SampleDescription struct {
	DataFormat         Tag
	DataReferenceIndex uint16
	Data               [MaxSampleDescriptionBytes]byte
	DataLen            int
	AtomPos
}

func (self *SampleDescription) Tag() Tag {
	return self.DataFormat
}

func (self *SampleDescription) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	if offset, err = tell(r); err != nil {
		return
	}
	var size uint32
	if size, self.DataFormat, err = ReadHeader(r); err != nil {
		err = parseErr("stsd", offset, err)
		return
	}
	if size < 16 {
		err = parseErr(self.DataFormat.String(), offset, ErrBadFormat)
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, 6); err != nil {
		err = parseErr("Reserved", offset+int64(n), err)
		return
	}
	n += 6
	if self.DataReferenceIndex, err = ReadU16(r); err != nil {
		err = parseErr("DataReferenceIndex", offset+int64(n), err)
		return
	}
	n += 2
	left := int(size) - n
	if left > MaxSampleDescriptionBytes {
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

func (self *SampleDescription) Marshal(w io.Writer) (n int, err error) {
	if self.DataLen < 0 || self.DataLen > MaxSampleDescriptionBytes {
		err = countErr(self.DataFormat.String(), self.DataLen, MaxSampleDescriptionBytes)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), self.DataFormat); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, 6); err != nil {
		return
	}
	n += 6
	if err = WriteU16(w, self.DataReferenceIndex); err != nil {
		return
	}
	n += 2
	if _, err = w.Write(self.Data[:self.DataLen]); err != nil {
		return
	}
	n += self.DataLen
	return
}

func (self *SampleDescription) Len() int {
	return 8 + 8 + self.DataLen
}

func (self *SampleDescription) Children() []Atom {
	return nil
}

const STTS = Tag(0x73747473)

type TimeToSampleEntry struct {
	Count    uint32
	Duration uint32
}

type TimeToSample struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxTimeToSampleEntries]TimeToSampleEntry
	EntryCount int
	AtomPos
}

func (self *TimeToSample) Tag() Tag {
	return STTS
}

func (self *TimeToSample) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STTS); err != nil {
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
	if count > MaxTimeToSampleEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i].Count, err = ReadU32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].Duration, err = ReadU32(r); err != nil {
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

func (self *TimeToSample) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxTimeToSampleEntries {
		err = countErr("stts", self.EntryCount, MaxTimeToSampleEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STTS); err != nil {
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
		if err = WriteU32(w, self.Entries[i].Count); err != nil {
			return
		}
		n += 4
		if err = WriteU32(w, self.Entries[i].Duration); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *TimeToSample) Len() int {
	return 8 + 8 + 8*max(min(self.EntryCount, MaxTimeToSampleEntries), 0)
}

func (self *TimeToSample) Children() []Atom {
	return nil
}

const CTTS = Tag(0x63747473)

type CompositionOffsetEntry struct {
	Count  uint32
	Offset int32
}

type CompositionOffset struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxCompositionOffsetEntries]CompositionOffsetEntry
	EntryCount int
	AtomPos
}

func (self *CompositionOffset) Tag() Tag {
	return CTTS
}

func (self *CompositionOffset) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, CTTS); err != nil {
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
	if count > MaxCompositionOffsetEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i].Count, err = ReadU32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].Offset, err = ReadI32(r); err != nil {
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

func (self *CompositionOffset) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxCompositionOffsetEntries {
		err = countErr("ctts", self.EntryCount, MaxCompositionOffsetEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), CTTS); err != nil {
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
		if err = WriteU32(w, self.Entries[i].Count); err != nil {
			return
		}
		n += 4
		if err = WriteI32(w, self.Entries[i].Offset); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *CompositionOffset) Len() int {
	return 8 + 8 + 8*max(min(self.EntryCount, MaxCompositionOffsetEntries), 0)
}

func (self *CompositionOffset) Children() []Atom {
	return nil
}

const STSC = Tag(0x73747363)

type SampleToChunkEntry struct {
	FirstChunk      uint32
	SamplesPerChunk uint32
	SampleDescId    uint32
}

type SampleToChunk struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxSampleToChunkEntries]SampleToChunkEntry
	EntryCount int
	AtomPos
}

func (self *SampleToChunk) Tag() Tag {
	return STSC
}

func (self *SampleToChunk) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STSC); err != nil {
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
	if count > MaxSampleToChunkEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i].FirstChunk, err = ReadU32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].SamplesPerChunk, err = ReadU32(r); err != nil {
			err = parseErr("Entries", offset+int64(n), err)
			return
		}
		n += 4
		if self.Entries[i].SampleDescId, err = ReadU32(r); err != nil {
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

func (self *SampleToChunk) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxSampleToChunkEntries {
		err = countErr("stsc", self.EntryCount, MaxSampleToChunkEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STSC); err != nil {
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
		if err = WriteU32(w, self.Entries[i].FirstChunk); err != nil {
			return
		}
		n += 4
		if err = WriteU32(w, self.Entries[i].SamplesPerChunk); err != nil {
			return
		}
		n += 4
		if err = WriteU32(w, self.Entries[i].SampleDescId); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *SampleToChunk) Len() int {
	return 8 + 8 + 12*max(min(self.EntryCount, MaxSampleToChunkEntries), 0)
}

func (self *SampleToChunk) Children() []Atom {
	return nil
}

const STSZ = Tag(0x7374737a)

// SampleSize holds stsz. When SampleSize is nonzero every sample has
// that size and the table is absent, EntryCount then only mirrors the
// declared sample count.
type SampleSize struct {
	Version    uint8
	Flags      uint32
	SampleSize uint32
	Entries    [MaxSampleSizeEntries]uint32
	EntryCount int
	AtomPos
}

func (self *SampleSize) Tag() Tag {
	return STSZ
}

func (self *SampleSize) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STSZ); err != nil {
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
	if self.SampleSize, err = ReadU32(r); err != nil {
		err = parseErr("SampleSize", offset+int64(n), err)
		return
	}
	n += 4
	var count uint32
	if count, err = ReadU32(r); err != nil {
		err = parseErr("EntryCount", offset+int64(n), err)
		return
	}
	n += 4
	if self.SampleSize == 0 {
		if count > MaxSampleSizeEntries {
			err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
			return
		}
		for i := 0; i < int(count); i++ {
			if self.Entries[i], err = ReadU32(r); err != nil {
				err = parseErr("Entries", offset+int64(n), err)
				return
			}
			n += 4
		}
	}
	self.EntryCount = int(count)
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *SampleSize) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || (self.SampleSize == 0 && self.EntryCount > MaxSampleSizeEntries) {
		err = countErr("stsz", self.EntryCount, MaxSampleSizeEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STSZ); err != nil {
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
	if err = WriteU32(w, self.SampleSize); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, uint32(self.EntryCount)); err != nil {
		return
	}
	n += 4
	if self.SampleSize == 0 {
		for i := 0; i < self.EntryCount; i++ {
			if err = WriteU32(w, self.Entries[i]); err != nil {
				return
			}
			n += 4
		}
	}
	return
}

func (self *SampleSize) Len() (n int) {
	n = 8 + 12
	if self.SampleSize == 0 {
		n += 4 * max(min(self.EntryCount, MaxSampleSizeEntries), 0)
	}
	return
}

func (self *SampleSize) Children() []Atom {
	return nil
}

const STCO = Tag(0x7374636f)

type ChunkOffset struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxChunkOffsetEntries]uint32
	EntryCount int
	AtomPos
}

func (self *ChunkOffset) Tag() Tag {
	return STCO
}

func (self *ChunkOffset) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STCO); err != nil {
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
	if count > MaxChunkOffsetEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i], err = ReadU32(r); err != nil {
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

func (self *ChunkOffset) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxChunkOffsetEntries {
		err = countErr("stco", self.EntryCount, MaxChunkOffsetEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STCO); err != nil {
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
		if err = WriteU32(w, self.Entries[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *ChunkOffset) Len() int {
	return 8 + 8 + 4*max(min(self.EntryCount, MaxChunkOffsetEntries), 0)
}

func (self *ChunkOffset) Children() []Atom {
	return nil
}

const STSS = Tag(0x73747373)

type SyncSample struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxSyncSampleEntries]uint32
	EntryCount int
	AtomPos
}

func (self *SyncSample) Tag() Tag {
	return STSS
}

func (self *SyncSample) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STSS); err != nil {
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
	if count > MaxSyncSampleEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i], err = ReadU32(r); err != nil {
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

func (self *SyncSample) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxSyncSampleEntries {
		err = countErr("stss", self.EntryCount, MaxSyncSampleEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STSS); err != nil {
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
		if err = WriteU32(w, self.Entries[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *SyncSample) Len() int {
	return 8 + 8 + 4*max(min(self.EntryCount, MaxSyncSampleEntries), 0)
}

func (self *SyncSample) Children() []Atom {
	return nil
}

const STPS = Tag(0x73747073)

type PartialSyncSample struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxPartialSyncSampleEntries]uint32
	EntryCount int
	AtomPos
}

func (self *PartialSyncSample) Tag() Tag {
	return STPS
}

func (self *PartialSyncSample) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, STPS); err != nil {
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
	if count > MaxPartialSyncSampleEntries {
		err = parseErr("EntryCount", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < int(count); i++ {
		if self.Entries[i], err = ReadU32(r); err != nil {
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

func (self *PartialSyncSample) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxPartialSyncSampleEntries {
		err = countErr("stps", self.EntryCount, MaxPartialSyncSampleEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), STPS); err != nil {
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
		if err = WriteU32(w, self.Entries[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *PartialSyncSample) Len() int {
	return 8 + 8 + 4*max(min(self.EntryCount, MaxPartialSyncSampleEntries), 0)
}

func (self *PartialSyncSample) Children() []Atom {
	return nil
}

const SDTP = Tag(0x73647470)

// SampleDependency holds sdtp. The atom carries one flag byte per
// sample with no count of its own, the table runs to the end of the
// atom.
type SampleDependency struct {
	Version    uint8
	Flags      uint32
	Entries    [MaxSampleDependencyEntries]uint8
	EntryCount int
	AtomPos
}

func (self *SampleDependency) Tag() Tag {
	return SDTP
}

func (self *SampleDependency) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, SDTP); err != nil {
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
	if left > MaxSampleDependencyEntries {
		err = parseErr("Entries", offset+int64(n), ErrTooManyAtoms)
		return
	}
	if _, err = io.ReadFull(r, self.Entries[:left]); err != nil {
		err = parseErr("Entries", offset+int64(n), err)
		return
	}
	self.EntryCount = left
	n += left
	return
}

func (self *SampleDependency) Marshal(w io.Writer) (n int, err error) {
	if self.EntryCount < 0 || self.EntryCount > MaxSampleDependencyEntries {
		err = countErr("sdtp", self.EntryCount, MaxSampleDependencyEntries)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), SDTP); err != nil {
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
	if _, err = w.Write(self.Entries[:self.EntryCount]); err != nil {
		return
	}
	n += self.EntryCount
	return
}

func (self *SampleDependency) Len() int {
	return 8 + 4 + max(min(self.EntryCount, MaxSampleDependencyEntries), 0)
}

func (self *SampleDependency) Children() []Atom {
	return nil
}

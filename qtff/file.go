package qtff

import (
	"io"
)

const FTYP = Tag(0x66747970)

type FileType struct {
	MajorBrand       FourCC
	MinorVersion     uint32
	CompatibleBrands [MaxCompatibleBrands]FourCC
	BrandCount       int
	AtomPos
}

func (self *FileType) Tag() Tag {
	return FTYP
}

func (self *FileType) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, FTYP); err != nil {
		return
	}
	if size < 16 || (size-16)%4 != 0 {
		err = parseErr("ftyp", offset, ErrBadFormat)
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.MajorBrand, err = ReadFourCC(r); err != nil {
		err = parseErr("MajorBrand", offset+int64(n), err)
		return
	}
	n += 4
	if self.MinorVersion, err = ReadU32(r); err != nil {
		err = parseErr("MinorVersion", offset+int64(n), err)
		return
	}
	n += 4
	count := int(size-16) / 4
	if count > MaxCompatibleBrands {
		err = parseErr("CompatibleBrands", offset+int64(n), ErrTooManyAtoms)
		return
	}
	for i := 0; i < count; i++ {
		if self.CompatibleBrands[i], err = ReadFourCC(r); err != nil {
			err = parseErr("CompatibleBrands", offset+int64(n), err)
			return
		}
		n += 4
	}
	self.BrandCount = count
	return
}

func (self *FileType) Marshal(w io.Writer) (n int, err error) {
	if self.BrandCount < 0 || self.BrandCount > MaxCompatibleBrands {
		err = countErr("ftyp", self.BrandCount, MaxCompatibleBrands)
		return
	}
	if err = WriteHeader(w, uint32(self.Len()), FTYP); err != nil {
		return
	}
	n += 8
	if err = WriteFourCC(w, self.MajorBrand); err != nil {
		return
	}
	n += 4
	if err = WriteU32(w, self.MinorVersion); err != nil {
		return
	}
	n += 4
	for i := 0; i < self.BrandCount; i++ {
		if err = WriteFourCC(w, self.CompatibleBrands[i]); err != nil {
			return
		}
		n += 4
	}
	return
}

func (self *FileType) Len() int {
	return 8 + 8 + 4*max(min(self.BrandCount, MaxCompatibleBrands), 0)
}

func (self *FileType) Children() []Atom {
	return nil
}

const MDAT = Tag(0x6d646174)

// MovieData records the position and extent of an mdat atom. The
// payload is skipped on read and written back as zero bytes.
type MovieData struct {
	DataSize uint32
	AtomPos
}

func (self *MovieData) Tag() Tag {
	return MDAT
}

func (self *MovieData) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, MDAT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, int(size)-n); err != nil {
		err = parseErr("Data", offset+int64(n), err)
		return
	}
	self.DataSize = size - 8
	n = int(size)
	return
}

func (self *MovieData) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), MDAT); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, int(self.DataSize)); err != nil {
		return
	}
	n += int(self.DataSize)
	return
}

func (self *MovieData) Len() int {
	return 8 + int(self.DataSize)
}

func (self *MovieData) Children() []Atom {
	return nil
}

const FREE = Tag(0x66726565)

type Free struct {
	PadSize uint32
	AtomPos
}

func (self *Free) Tag() Tag {
	return FREE
}

func (self *Free) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, FREE); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, int(size)-n); err != nil {
		err = parseErr("Data", offset+int64(n), err)
		return
	}
	self.PadSize = size - 8
	n = int(size)
	return
}

func (self *Free) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), FREE); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, int(self.PadSize)); err != nil {
		return
	}
	n += int(self.PadSize)
	return
}

func (self *Free) Len() int {
	return 8 + int(self.PadSize)
}

func (self *Free) Children() []Atom {
	return nil
}

const SKIP = Tag(0x736b6970)

type Skip struct {
	PadSize uint32
	AtomPos
}

func (self *Skip) Tag() Tag {
	return SKIP
}

func (self *Skip) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, SKIP); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, int(size)-n); err != nil {
		err = parseErr("Data", offset+int64(n), err)
		return
	}
	self.PadSize = size - 8
	n = int(size)
	return
}

func (self *Skip) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), SKIP); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, int(self.PadSize)); err != nil {
		return
	}
	n += int(self.PadSize)
	return
}

func (self *Skip) Len() int {
	return 8 + int(self.PadSize)
}

func (self *Skip) Children() []Atom {
	return nil
}

const WIDE = Tag(0x77696465)

type Wide struct {
	PadSize uint32
	AtomPos
}

func (self *Wide) Tag() Tag {
	return WIDE
}

func (self *Wide) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, WIDE); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, int(size)-n); err != nil {
		err = parseErr("Data", offset+int64(n), err)
		return
	}
	self.PadSize = size - 8
	n = int(size)
	return
}

func (self *Wide) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), WIDE); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, int(self.PadSize)); err != nil {
		return
	}
	n += int(self.PadSize)
	return
}

func (self *Wide) Len() int {
	return 8 + int(self.PadSize)
}

func (self *Wide) Children() []Atom {
	return nil
}

const PNOT = Tag(0x706e6f74)

type Preview struct {
	ModificationTime uint32
	Version          uint16
	AtomType         FourCC
	AtomIndex        uint16
	AtomPos
}

func (self *Preview) Tag() Tag {
	return PNOT
}

func (self *Preview) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	var size uint32
	if offset, size, err = readAtomStart(r, PNOT); err != nil {
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if self.ModificationTime, err = ReadU32(r); err != nil {
		err = parseErr("ModificationTime", offset+int64(n), err)
		return
	}
	n += 4
	if self.Version, err = ReadU16(r); err != nil {
		err = parseErr("Version", offset+int64(n), err)
		return
	}
	n += 2
	if self.AtomType, err = ReadFourCC(r); err != nil {
		err = parseErr("AtomType", offset+int64(n), err)
		return
	}
	n += 4
	if self.AtomIndex, err = ReadU16(r); err != nil {
		err = parseErr("AtomIndex", offset+int64(n), err)
		return
	}
	n += 2
	if n != int(size) {
		err = parseErr("Size", offset, ErrBadFormat)
		return
	}
	return
}

func (self *Preview) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), PNOT); err != nil {
		return
	}
	n += 8
	if err = WriteU32(w, self.ModificationTime); err != nil {
		return
	}
	n += 4
	if err = WriteU16(w, self.Version); err != nil {
		return
	}
	n += 2
	if err = WriteFourCC(w, self.AtomType); err != nil {
		return
	}
	n += 4
	if err = WriteU16(w, self.AtomIndex); err != nil {
		return
	}
	n += 2
	return
}

func (self *Preview) Len() int {
	return 8 + 12
}

func (self *Preview) Children() []Atom {
	return nil
}

// Unknown stands in for an atom the decoder has no layout for. The
// payload is skipped on read and written back as zero bytes.
type Unknown struct {
	Tag_     Tag
	DataSize uint32
	AtomPos
}

func (self *Unknown) Tag() Tag {
	return self.Tag_
}

func (self *Unknown) Unmarshal(r io.ReadSeeker) (n int, err error) {
	var offset int64
	if offset, err = tell(r); err != nil {
		return
	}
	var size uint32
	if size, self.Tag_, err = ReadHeader(r); err != nil {
		err = parseErr("", offset, err)
		return
	}
	if size < 8 {
		err = parseErr(self.Tag_.String(), offset, ErrBadFormat)
		return
	}
	self.AtomPos.setPos(offset, int(size))
	n += 8
	if err = discard(r, int(size)-n); err != nil {
		err = parseErr(self.Tag_.String(), offset+int64(n), err)
		return
	}
	self.DataSize = size - 8
	n = int(size)
	return
}

func (self *Unknown) Marshal(w io.Writer) (n int, err error) {
	if err = WriteHeader(w, uint32(self.Len()), self.Tag_); err != nil {
		return
	}
	n += 8
	if err = writeZeros(w, int(self.DataSize)); err != nil {
		return
	}
	n += int(self.DataSize)
	return
}

func (self *Unknown) Len() int {
	return 8 + int(self.DataSize)
}

func (self *Unknown) Children() []Atom {
	return nil
}

// MovieFile is a whole QuickTime file. Marshal writes the atoms in a
// canonical order regardless of how they were laid out on read.
type MovieFile struct {
	FileType       Optional[FileType]
	Movie          Movie
	MovieData      [MaxMovieDataAtoms]MovieData
	MovieDataCount int
	Free           [MaxFreeAtoms]Free
	FreeCount      int
	Skip           [MaxSkipAtoms]Skip
	SkipCount      int
	Wide           [MaxWideAtoms]Wide
	WideCount      int
	Preview        Optional[Preview]
}

// ReadMovieFile decodes a movie file from r until end of stream. Atoms
// with no place in MovieFile are skipped. A file without a moov atom
// is rejected.
func ReadMovieFile(r io.ReadSeeker) (file *MovieFile, err error) {
	var start int64
	if start, err = tell(r); err != nil {
		return nil, err
	}
	file = &MovieFile{}
	seenMovie := false
	for {
		var offset int64
		if offset, err = tell(r); err != nil {
			return nil, err
		}
		var size uint32
		var tag Tag
		if size, tag, err = PeekHeader(r); err != nil {
			if err == io.EOF {
				break
			}
			return nil, parseErr("", offset, err)
		}
		if size < 8 {
			return nil, parseErr(tag.String(), offset, ErrBadFormat)
		}
		switch tag {
		case FTYP:
			if file.FileType.Present {
				return nil, parseErr("ftyp", offset, ErrBadFormat)
			}
			if _, err = file.FileType.Value.Unmarshal(r); err != nil {
				return nil, parseErr("ftyp", offset, err)
			}
			file.FileType.Present = true
		case MOOV:
			if seenMovie {
				return nil, parseErr("moov", offset, ErrBadFormat)
			}
			if _, err = file.Movie.Unmarshal(r); err != nil {
				return nil, parseErr("moov", offset, err)
			}
			seenMovie = true
		case MDAT:
			if file.MovieDataCount >= MaxMovieDataAtoms {
				return nil, parseErr("mdat", offset, ErrTooManyAtoms)
			}
			if _, err = file.MovieData[file.MovieDataCount].Unmarshal(r); err != nil {
				return nil, parseErr("mdat", offset, err)
			}
			file.MovieDataCount++
		case FREE:
			if file.FreeCount >= MaxFreeAtoms {
				return nil, parseErr("free", offset, ErrTooManyAtoms)
			}
			if _, err = file.Free[file.FreeCount].Unmarshal(r); err != nil {
				return nil, parseErr("free", offset, err)
			}
			file.FreeCount++
		case SKIP:
			if file.SkipCount >= MaxSkipAtoms {
				return nil, parseErr("skip", offset, ErrTooManyAtoms)
			}
			if _, err = file.Skip[file.SkipCount].Unmarshal(r); err != nil {
				return nil, parseErr("skip", offset, err)
			}
			file.SkipCount++
		case WIDE:
			if file.WideCount >= MaxWideAtoms {
				return nil, parseErr("wide", offset, ErrTooManyAtoms)
			}
			if _, err = file.Wide[file.WideCount].Unmarshal(r); err != nil {
				return nil, parseErr("wide", offset, err)
			}
			file.WideCount++
		case PNOT:
			if file.Preview.Present {
				return nil, parseErr("pnot", offset, ErrBadFormat)
			}
			if _, err = file.Preview.Value.Unmarshal(r); err != nil {
				return nil, parseErr("pnot", offset, err)
			}
			file.Preview.Present = true
		default:
			if err = discard(r, int(size)); err != nil {
				return nil, parseErr(tag.String(), offset, err)
			}
		}
	}
	if !seenMovie {
		return nil, parseErr("moov", start, ErrBadFormat)
	}
	return file, nil
}

func (self *MovieFile) Marshal(w io.Writer) (n int, err error) {
	if self.MovieDataCount < 0 || self.MovieDataCount > MaxMovieDataAtoms {
		err = countErr("mdat", self.MovieDataCount, MaxMovieDataAtoms)
		return
	}
	if self.FreeCount < 0 || self.FreeCount > MaxFreeAtoms {
		err = countErr("free", self.FreeCount, MaxFreeAtoms)
		return
	}
	if self.SkipCount < 0 || self.SkipCount > MaxSkipAtoms {
		err = countErr("skip", self.SkipCount, MaxSkipAtoms)
		return
	}
	if self.WideCount < 0 || self.WideCount > MaxWideAtoms {
		err = countErr("wide", self.WideCount, MaxWideAtoms)
		return
	}
	var nn int
	if self.FileType.Present {
		if nn, err = self.FileType.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if nn, err = self.Movie.Marshal(w); err != nil {
		return
	}
	n += nn
	for i := 0; i < self.MovieDataCount; i++ {
		if nn, err = self.MovieData[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	for i := 0; i < self.FreeCount; i++ {
		if nn, err = self.Free[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	for i := 0; i < self.SkipCount; i++ {
		if nn, err = self.Skip[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	for i := 0; i < self.WideCount; i++ {
		if nn, err = self.Wide[i].Marshal(w); err != nil {
			return
		}
		n += nn
	}
	if self.Preview.Present {
		if nn, err = self.Preview.Value.Marshal(w); err != nil {
			return
		}
		n += nn
	}
	return
}

func (self *MovieFile) Len() (n int) {
	if self.FileType.Present {
		n += self.FileType.Value.Len()
	}
	n += self.Movie.Len()
	for i := 0; i < min(self.MovieDataCount, MaxMovieDataAtoms); i++ {
		n += self.MovieData[i].Len()
	}
	for i := 0; i < min(self.FreeCount, MaxFreeAtoms); i++ {
		n += self.Free[i].Len()
	}
	for i := 0; i < min(self.SkipCount, MaxSkipAtoms); i++ {
		n += self.Skip[i].Len()
	}
	for i := 0; i < min(self.WideCount, MaxWideAtoms); i++ {
		n += self.Wide[i].Len()
	}
	if self.Preview.Present {
		n += self.Preview.Value.Len()
	}
	return
}

// Atoms lists the top level atoms in the order Marshal writes them.
func (self *MovieFile) Atoms() (r []Atom) {
	if self.FileType.Present {
		r = append(r, &self.FileType.Value)
	}
	r = append(r, &self.Movie)
	for i := 0; i < min(self.MovieDataCount, MaxMovieDataAtoms); i++ {
		r = append(r, &self.MovieData[i])
	}
	for i := 0; i < min(self.FreeCount, MaxFreeAtoms); i++ {
		r = append(r, &self.Free[i])
	}
	for i := 0; i < min(self.SkipCount, MaxSkipAtoms); i++ {
		r = append(r, &self.Skip[i])
	}
	for i := 0; i < min(self.WideCount, MaxWideAtoms); i++ {
		r = append(r, &self.Wide[i])
	}
	if self.Preview.Present {
		r = append(r, &self.Preview.Value)
	}
	return
}

// ReadFileAtoms walks the top level of a movie file in order, decoding
// the atoms it recognises and keeping Unknown placeholders for the
// rest. Unlike ReadMovieFile it imposes no structure on the file.
func ReadFileAtoms(r io.ReadSeeker) (atoms []Atom, err error) {
	for {
		var offset int64
		if offset, err = tell(r); err != nil {
			return nil, err
		}
		var size uint32
		var tag Tag
		if size, tag, err = PeekHeader(r); err != nil {
			if err == io.EOF {
				break
			}
			return nil, parseErr("", offset, err)
		}
		if size < 8 {
			return nil, parseErr(tag.String(), offset, ErrBadFormat)
		}
		var atom Atom
		switch tag {
		case FTYP:
			atom = &FileType{}
		case MOOV:
			atom = &Movie{}
		case MDAT:
			atom = &MovieData{}
		case FREE:
			atom = &Free{}
		case SKIP:
			atom = &Skip{}
		case WIDE:
			atom = &Wide{}
		case PNOT:
			atom = &Preview{}
		default:
			atom = &Unknown{}
		}
		if _, err = atom.(unmarshaler).Unmarshal(r); err != nil {
			return nil, parseErr(tag.String(), offset, err)
		}
		atoms = append(atoms, atom)
	}
	return
}

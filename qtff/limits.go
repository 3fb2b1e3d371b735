package qtff

// Every repeated slot in the atom tree has a fixed capacity so that a
// fully decoded movie file occupies a bounded, statically known amount
// of memory. Decoding input that overflows any of these capacities
// fails with ErrTooManyAtoms.
const (
	MaxCompatibleBrands = 8

	MaxMovieTracks    = 8
	MaxMovieDataAtoms = 8
	MaxFreeAtoms      = 8
	MaxSkipAtoms      = 8
	MaxWideAtoms      = 8

	MaxTrackReferenceTypes = 8
	MaxTrackReferenceIds   = 16
	MaxEditListEntries     = 64

	MaxUserDataItems = 16
	MaxUserDataBytes = 256

	MaxComponentNameBytes = 64
	MaxMatteDataBytes     = 256
	MaxRegionDataBytes    = 128
	MaxColorTableColors   = 256

	MaxDataReferences         = 8
	MaxDataReferenceBytes     = 128
	MaxSampleDescriptions     = 8
	MaxSampleDescriptionBytes = 256

	MaxTimeToSampleEntries      = 512
	MaxCompositionOffsetEntries = 512
	MaxSampleToChunkEntries     = 512
	MaxSyncSampleEntries        = 512
	MaxPartialSyncSampleEntries = 512
	MaxSampleSizeEntries        = 1024
	MaxChunkOffsetEntries       = 1024
	MaxSampleDependencyEntries  = 1024
)

package location

// PositionRegistry provides byte-offset-to-position conversion.
//
// A source content registry that implements it turns byte offsets captured
// during parsing into Position values. No type of this module outside tests
// implements it; catalog.SourceRegistry stores raw source bytes but has no
// PositionAt method.
//
// PositionRegistry is defined in location (foundation tier) because the
// interface operates on location.Position and location.SourceID.
type PositionRegistry interface {
	// PositionAt converts a byte offset to a Position for the given source.
	//
	// Returns a zero Position (check via IsZero()) if:
	//   - The source is not registered
	//   - The byte offset is out of range
	//   - The byte offset is negative
	//
	// The returned Position has:
	//   - Line: 1-based line number
	//   - Column: 1-based rune offset from line start
	//   - Byte: The input byteOffset (echoed back for convenience)
	PositionAt(source SourceID, byteOffset int) Position
}

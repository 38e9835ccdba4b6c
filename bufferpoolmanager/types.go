package bufferpoolmanager

const (
	PAGE_SIZE        = 4096
	METADATA_PAGE_ID = 0

	DIRTY = true
	CLEAN = false
)

// PageID is the stable identity of a page on disk.
type PageID int64

// INVALID_PAGE_ID marks a frame that does not hold any page.
const INVALID_PAGE_ID PageID = -1

// FrameID is a position in the frame store. It is not the identity of any page,
// the same frame holds unrelated pages over time.
type FrameID int

// INVALID_FRAME_ID is returned alongside errors where a frame was expected.
const INVALID_FRAME_ID FrameID = -1

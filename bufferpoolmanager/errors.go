package bufferpoolmanager

import "errors"

var (
	// ErrPoolExhausted is returned when every resident frame is pinned and the free list is empty.
	// The caller can unpin a page and retry.
	ErrPoolExhausted = errors.New("buffer pool exhausted, all frames are pinned")

	ErrPageNotResident = errors.New("page is not resident in the buffer pool")
	ErrPagePinned      = errors.New("page is pinned, cannot delete")

	// ErrDoubleUnpin signals a pin/unpin pairing bug in the caller.
	ErrDoubleUnpin = errors.New("page pin count is already zero")

	ErrPoolClosed        = errors.New("buffer pool is closed")
	ErrInvalidPoolSize   = errors.New("invalid pool size")
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrPageSizeMismatch  = errors.New("pool page size does not match disk page size")
	ErrInvalidPolicy     = errors.New("unknown replacement policy")
	ErrInvalidPageId     = errors.New("invalid page id")
	ErrPageNotAllocated  = errors.New("page is not allocated")
	ErrPageDeallocated   = errors.New("page is deallocated")
	ErrInvalidBufferSize = errors.New("buffer size does not match page size")
	ErrDiskClosed        = errors.New("disk manager is closed")
	ErrGuardInactive     = errors.New("guard is no longer active")
)

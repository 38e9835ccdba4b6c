package bufferpoolmanager

import (
	"unsafe"

	"github.com/ncw/directio"
)

// allocateFrameBuffers carves poolSize page buffers out of one contiguous aligned block.
// Every buffer starts on an alignment boundary when pageSize is a multiple of directio.AlignSize,
// so frames can be handed to a Direct I/O disk manager without an extra copy.
func allocateFrameBuffers(poolSize int, pageSize int) [][]byte {

	block := directio.AlignedBlock(poolSize * pageSize)

	buffers := make([][]byte, poolSize)

	for i := range poolSize {
		buffers[i] = block[i*pageSize : (i+1)*pageSize : (i+1)*pageSize]
	}

	return buffers
}

// isAligned reports whether a buffer can be used directly for Direct I/O.
func isAligned(buffer []byte) bool {

	if len(buffer) == 0 || len(buffer)%directio.BlockSize != 0 {
		return false
	}

	return directio.AlignSize == 0 || uintptr(unsafe.Pointer(&buffer[0]))%uintptr(directio.AlignSize) == 0
}

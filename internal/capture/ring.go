package capture

import "fmt"

const (
	tpacketAlignment = 16 // TPACKET_ALIGNMENT
	tpacketHdrLen    = 52 // TPACKET3_HDRLEN, rounded
	targetBlockSize  = 1 << 20
)

// recomputeSize derives AF_PACKET ring geometry for a memory budget.
//
// PACKET_MMAP requires frameSize to be a multiple of TPACKET_ALIGNMENT and
// blockSize to be a multiple of both the page size and frameSize.
// blockSize*numBlocks approximates the budget.
func recomputeSize(bufferSizeMB, snapLen, pageSize int) (frameSize, blockSize, numBlocks int, err error) {
	if bufferSizeMB <= 0 {
		return 0, 0, 0, fmt.Errorf("buffer size must be positive, got %d MB", bufferSizeMB)
	}
	if snapLen <= 0 {
		return 0, 0, 0, fmt.Errorf("snap length must be positive, got %d", snapLen)
	}
	if pageSize <= 0 || pageSize%tpacketAlignment != 0 {
		return 0, 0, 0, fmt.Errorf("page size must be a positive multiple of %d, got %d", tpacketAlignment, pageSize)
	}

	frameSize = alignUp(tpacketHdrLen+snapLen, tpacketAlignment)
	if frameSize > pageSize {
		// Page-aligned frames keep the block size equal to a few frames
		// instead of the product of two unrelated sizes.
		frameSize = alignUp(frameSize, pageSize)
	}

	blockSize = lcm(pageSize, frameSize)
	if n := targetBlockSize / blockSize; n > 1 {
		blockSize *= n
	}

	numBlocks = max(bufferSizeMB<<20/blockSize, 1)
	return frameSize, blockSize, numBlocks, nil
}

func alignUp(n, a int) int {
	return (n + a - 1) / a * a
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

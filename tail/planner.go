package tail

// StartOffset computes the offset a tail session starts reading a partition
// at, given the partition's high watermark and the requested look-back count.
// A look-back of 0 starts at the live head, no history is replayed. A
// look-back that reaches past the beginning of the log is clamped to offset
// 0; whether offset 0 is still retained is the broker's call, a log
// truncated by retention answers with OFFSET_OUT_OF_RANGE and the consumer
// resets per its own policy.
func StartOffset(highWaterMark int64, lookBack uint64) int64 {
	if lookBack == 0 {
		return highWaterMark
	}
	if highWaterMark < 0 || lookBack >= uint64(highWaterMark) {
		return 0
	}
	return highWaterMark - int64(lookBack)
}

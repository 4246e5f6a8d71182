package group

// PartitionOffsets pairs a partition's committed consumer offset with its
// high watermark. A CommittedOffset below zero means no consumer of the
// group has committed for this partition yet.
type PartitionOffsets struct {
	Topic           string
	Partition       int32
	CommittedOffset int64
	HighWaterMark   int64
}

// PartitionLag is one reconciled row of the lag view.
type PartitionLag struct {
	Topic           string
	Partition       int32
	CommittedOffset int64
	HighWaterMark   int64
	Lag             int64
}

// ComputeLags turns raw offset/watermark pairs into lag rows, one row per
// input pair in input order. An absent committed offset counts as 0. The lag
// is clamped at 0: a committed offset ahead of the high watermark can occur
// when the two values were fetched at different times or after an offset
// reset, and reporting it as negative would only confuse the reader. The
// clamp is a display guard, it does not correct broker state.
func ComputeLags(pairs []PartitionOffsets) []PartitionLag {
	if len(pairs) == 0 {
		return nil
	}

	lags := make([]PartitionLag, 0, len(pairs))
	for _, pair := range pairs {
		committed := pair.CommittedOffset
		if committed < 0 {
			committed = 0
		}
		lag := pair.HighWaterMark - committed
		if lag < 0 {
			lag = 0
		}
		lags = append(lags, PartitionLag{
			Topic:           pair.Topic,
			Partition:       pair.Partition,
			CommittedOffset: committed,
			HighWaterMark:   pair.HighWaterMark,
			Lag:             lag,
		})
	}
	return lags
}

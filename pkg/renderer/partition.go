package renderer

// RowRange is a contiguous band of image rows, counted top-down
type RowRange struct {
	Offset int // First row of the band
	Rows   int // Number of rows in the band
}

// PartitionRows splits height rows between workers. Each worker gets
// height/workers rows and the last one also takes the remainder. The worker
// count is clamped to [1, height] so no band is empty unless the image is.
func PartitionRows(height, workers int) []RowRange {
	height = max(0, height)
	workers = max(1, min(workers, height))

	perWorker := height / workers
	ranges := make([]RowRange, workers)
	offset := 0
	for i := range ranges {
		rows := perWorker
		if i == workers-1 {
			rows = height - offset
		}
		ranges[i] = RowRange{Offset: offset, Rows: rows}
		offset += rows
	}
	return ranges
}

package parallel

// DefaultBandHeight is the band height used when none is given. Sixteen rows
// of a 1080p RGBA float target are about 480KB, enough work per item to
// amortize scheduling.
const DefaultBandHeight = 16

// Band is a horizontal strip of target rows [Y0, Y1).
type Band struct {
	Index int
	Y0    int
	Y1    int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int { return b.Y1 - b.Y0 }

// SplitRows divides height rows into bands of at most bandHeight rows, top
// to bottom. The last band may be shorter. bandHeight <= 0 selects
// DefaultBandHeight.
func SplitRows(height, bandHeight int) []Band {
	if height <= 0 {
		return nil
	}
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}
	n := (height + bandHeight - 1) / bandHeight
	bands := make([]Band, n)
	for i := range bands {
		y0 := i * bandHeight
		bands[i] = Band{Index: i, Y0: y0, Y1: min(y0+bandHeight, height)}
	}
	return bands
}

// ForEachBand runs fn once per band of the given height on the pool and
// waits for all of them. Bands never overlap, so fn may write its rows of a
// shared buffer without locking.
func (p *WorkerPool) ForEachBand(height, bandHeight int, fn func(Band)) {
	bands := SplitRows(height, bandHeight)
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}

package parallel

import (
	"sync/atomic"
	"testing"
)

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		bandHeight int
		want       []Band
	}{
		{"empty", 0, 16, nil},
		{"negative", -3, 16, nil},
		{"single short band", 5, 16, []Band{{0, 0, 5}}},
		{"exact", 32, 16, []Band{{0, 0, 16}, {1, 16, 32}}},
		{"remainder", 35, 16, []Band{{0, 0, 16}, {1, 16, 32}, {2, 32, 35}}},
		{"one row bands", 3, 1, []Band{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}}},
		{"default height", 20, 0, []Band{{0, 0, DefaultBandHeight}, {1, DefaultBandHeight, 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRows(tt.height, tt.bandHeight)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitRows(%d, %d) = %v, want %v", tt.height, tt.bandHeight, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitRowsCoversEveryRowOnce(t *testing.T) {
	for _, h := range []int{1, 7, 64, 100, 1081} {
		covered := make([]int, h)
		for _, b := range SplitRows(h, 16) {
			if b.Rows() <= 0 {
				t.Fatalf("height %d: empty band %+v", h, b)
			}
			for y := b.Y0; y < b.Y1; y++ {
				covered[y]++
			}
		}
		for y, n := range covered {
			if n != 1 {
				t.Fatalf("height %d: row %d covered %d times", h, y, n)
			}
		}
	}
}

func TestForEachBand(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const height = 100
	rows := make([]int32, height)
	pool.ForEachBand(height, 8, func(b Band) {
		for y := b.Y0; y < b.Y1; y++ {
			atomic.AddInt32(&rows[y], 1)
		}
	})
	for y, n := range rows {
		if n != 1 {
			t.Errorf("row %d visited %d times, want 1", y, n)
		}
	}
}

// Package match implements exhaustive nearest-neighbor search over a gallery
// snapshot. Stores stay small (tens to hundreds of identities), so a linear
// scan beats the bookkeeping of a similarity index and keeps results exactly
// deterministic.
package match

import (
	"math"

	"github.com/kozaktomas/face-checkin/internal/gallery"
)

// Result is the closest enrolled embedding to a query.
type Result struct {
	Name     string
	Distance float64
}

// L2 computes the Euclidean distance between two vectors.
// Returns +Inf for mismatched or empty input.
func L2(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Nearest scans the snapshot for the embedding closest to the query.
// Ties keep the first minimum in snapshot order, so results are deterministic
// for a given gallery state. Returns ok=false only for an empty snapshot.
func Nearest(snap *gallery.Snapshot, query []float32) (Result, bool) {
	if snap == nil || snap.Empty() {
		return Result{}, false
	}

	best := Result{Distance: math.Inf(1)}
	for _, entry := range snap.Entries() {
		if d := L2(entry.Vector, query); d < best.Distance {
			best = Result{Name: entry.Name, Distance: d}
		}
	}
	return best, true
}

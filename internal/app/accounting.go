package app

import (
	"fmt"

	"github.com/google/uuid"
)

// Accounting counts what happened to every fetched pitch. The pipeline
// never loses data silently: Fetched == Classified + Dropped().
type Accounting struct {
	RunID uuid.UUID

	ChunksFailed int
	Fetched      int

	DroppedMissingBounds int
	DroppedNoIdentity    int
	DroppedNoHeight      int
	DroppedMalformedZone int

	Classified int
}

// Dropped returns the total pitches lost across enrichment stages.
func (a Accounting) Dropped() int {
	return a.DroppedMissingBounds + a.DroppedNoIdentity + a.DroppedNoHeight + a.DroppedMalformedZone
}

// String renders the stage-by-stage accounting table.
func (a Accounting) String() string {
	return fmt.Sprintf(
		"run %s: fetched=%d (failed_chunks=%d) dropped: missing_bounds=%d no_identity=%d no_height=%d malformed_zone=%d classified=%d",
		a.RunID, a.Fetched, a.ChunksFailed,
		a.DroppedMissingBounds, a.DroppedNoIdentity, a.DroppedNoHeight, a.DroppedMalformedZone,
		a.Classified,
	)
}

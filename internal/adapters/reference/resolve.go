package reference

import (
	"github.com/statcraft/zoneshift/internal/domain/model"
)

// Resolve maps the distinct batter ids seen in events to canonical
// identities. Ids absent from the register are dropped from the mapping;
// their pitches still flow through the pipeline but cannot be
// biometrically joined.
func (t *IdentityTable) Resolve(batterIDs []int) map[int]model.Identity {
	out := make(map[int]model.Identity, len(batterIDs))
	for _, id := range batterIDs {
		if ident, ok := t.byID[id]; ok {
			out[id] = ident
		}
	}
	return out
}

// JoinHeights follows the chain numeric id -> secondary id -> height and
// returns a numeric id -> height mapping. Any break in the chain drops
// the subject: an identity without a biometric record contributes
// nothing, and a biometric record for a never-seen secondary id is
// ignored. No placeholder heights are ever produced.
func JoinHeights(identities map[int]model.Identity, bio *BiometricTable) map[int]float64 {
	out := make(map[int]float64, len(identities))
	for id, ident := range identities {
		if ident.SecondaryID == "" {
			continue
		}
		if h, ok := bio.bySecondary[ident.SecondaryID]; ok {
			out[id] = h
		}
	}
	return out
}

// DistinctBatters returns the distinct batter ids across pitches, in
// first-seen order.
func DistinctBatters(pitches []model.Pitch) []int {
	seen := make(map[int]struct{}, len(pitches))
	out := make([]int, 0, len(pitches))
	for _, p := range pitches {
		if _, ok := seen[p.BatterID]; ok {
			continue
		}
		seen[p.BatterID] = struct{}{}
		out = append(out, p.BatterID)
	}
	return out
}

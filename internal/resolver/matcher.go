package resolver

import (
	"math"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
)

// durationTolerance is the maximum absolute difference, in seconds, between
// the canonical duration and a candidate before they stop counting as the
// same recording. Two seconds absorbs encoding and silence-trim differences
// while rejecting live cuts and extended mixes.
const durationTolerance = 2.0

// MatchDuration scans candidates in search-rank order and returns the first
// whose length lands strictly within the tolerance of want (seconds). A later
// candidate never wins over an earlier acceptable one, even when it is
// closer. Returns false when no candidate qualifies or the list is empty.
func MatchDuration(want float64, candidates []services.SpotifyTrack) (*services.SpotifyTrack, bool) {
	for i := range candidates {
		if math.Abs(candidates[i].Duration()-want) < durationTolerance {
			return &candidates[i], true
		}
	}
	return nil, false
}

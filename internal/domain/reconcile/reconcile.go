// Package reconcile merges freshly linked bets into the accumulating
// history with idempotent de-duplication.
package reconcile

import (
	"github.com/okian/formline/internal/domain/model"
)

// Merge concatenates prior history with a new batch and de-duplicates on the
// natural key (date, tipster, track, horse, race_number), keeping the
// last-seen row: a re-upload of the same bet with corrected data supersedes
// the stored version. Feeding the same batch twice yields the same store, so
// re-uploads are idempotent. Order of the kept rows follows the position of
// each key's last occurrence.
func Merge(history, batch []model.LinkedBet) []model.LinkedBet {
	combined := make([]model.LinkedBet, 0, len(history)+len(batch))
	combined = append(combined, history...)
	combined = append(combined, batch...)

	last := make(map[string]int, len(combined))
	for i, bet := range combined {
		last[bet.NaturalKey()] = i
	}

	out := make([]model.LinkedBet, 0, len(last))
	for i, bet := range combined {
		if last[bet.NaturalKey()] == i {
			out = append(out, bet)
		}
	}
	return out
}

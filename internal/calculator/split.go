// Package calculator implements the settlement engine: resolving one
// expense into debtor→payer obligations and folding all of a room's
// expenses into a netted table of pairwise transfers.
//
// Everything here is a pure function over in-memory data. Statuses, rooms,
// and persistence live elsewhere.
package calculator

import (
	"math"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// Obligation is one raw share emitted by an expense: Debtor owes Creditor
// Amount for their part of that expense.
type Obligation struct {
	Debtor   string
	Creditor string
	Amount   int64
}

// ResolveExpense computes the obligations one expense creates toward its
// payer. The payer never owes themselves, but still counts toward the
// divisor when they appear among the participants or item users.
//
// Shares round half away from zero, independently per participant. The
// rounded shares may differ from the original amount by up to n-1 minor
// units in total; that drift is accepted rather than redistributed.
//
// Malformed records that slipped past creation-time validation contribute
// nothing: empty user sets are skipped and non-positive prices count as
// zero.
func ResolveExpense(e *models.Expense) []Obligation {
	if e == nil || e.PayerName == "" {
		return nil
	}

	var obs []Obligation
	switch e.Split {
	case models.SplitEqual:
		obs = appendShares(obs, e.PayerName, clampPrice(e.Amount), e.Participants)
	case models.SplitItem:
		for i := range e.Items {
			it := &e.Items[i]
			switch it.Mode {
			case models.ModeSharedSplit:
				obs = appendShares(obs, e.PayerName, clampPrice(it.TotalPrice), it.Users)
			case models.ModePerPerson:
				unit := clampPrice(it.UnitPrice)
				for _, u := range it.Users {
					if u != e.PayerName {
						obs = append(obs, Obligation{Debtor: u, Creditor: e.PayerName, Amount: unit})
					}
				}
			}
		}
	}
	return obs
}

// appendShares divides total evenly across users and appends one rounded
// share per non-payer user.
func appendShares(obs []Obligation, payer string, total int64, users []string) []Obligation {
	if len(users) == 0 {
		return obs
	}
	share := roundHalfAway(float64(total) / float64(len(users)))
	for _, u := range users {
		if u != payer {
			obs = append(obs, Obligation{Debtor: u, Creditor: payer, Amount: share})
		}
	}
	return obs
}

func clampPrice(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}

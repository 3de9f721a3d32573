package calculator

import (
	"sort"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// AggregateTransfers folds all obligations across the given expenses into
// one transfer per ordered (debtor, creditor) pair.
//
// Amounts for the same ordered pair are summed; opposite directions are
// deliberately NOT netted against each other, so "A owes B 1000" and
// "B owes A 600" stay two separate transfers with independent request
// lifecycles. Pairs that sum to zero are dropped.
//
// Output order is descending by amount, ties broken lexically by
// (from, to), so a fixed expense set always yields the same sequence.
func AggregateTransfers(expenses []*models.Expense) []models.Transfer {
	acc := make(map[models.TransferID]int64)
	for _, e := range expenses {
		for _, ob := range ResolveExpense(e) {
			if ob.Debtor == ob.Creditor {
				continue
			}
			acc[models.TransferID{From: ob.Debtor, To: ob.Creditor}] += ob.Amount
		}
	}

	transfers := make([]models.Transfer, 0, len(acc))
	for id, amount := range acc {
		if amount == 0 {
			continue
		}
		transfers = append(transfers, models.Transfer{From: id.From, To: id.To, Amount: amount})
	}

	sort.Slice(transfers, func(i, j int) bool {
		a, b := transfers[i], transfers[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})

	return transfers
}

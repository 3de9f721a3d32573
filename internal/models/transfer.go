package models

// TransferStatus is the lifecycle state of one directed transfer.
type TransferStatus string

const (
	// StatusReady means the creditor has not yet asked for the money.
	// It is the implicit state of any transfer with no stored row.
	StatusReady TransferStatus = "READY"

	// StatusRequested means the creditor has asked the debtor to pay.
	StatusRequested TransferStatus = "REQUESTED"

	// StatusDone means the creditor confirmed the money arrived.
	// Terminal: no operation leaves DONE.
	StatusDone TransferStatus = "DONE"
)

// Valid reports whether s is one of the three defined states.
func (s TransferStatus) Valid() bool {
	switch s {
	case StatusReady, StatusRequested, StatusDone:
		return true
	}
	return false
}

// TransferID identifies a directed transfer by its ordered endpoint pair.
// A composite key rather than a packed "from->to" string, so member names
// containing a separator cannot collide.
type TransferID struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Transfer is a derived, directed pairwise debt: From owes To Amount.
// Recomputed fresh from the room's expenses on every settlement view;
// never stored.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// ID returns the transfer's identity pair.
func (t Transfer) ID() TransferID {
	return TransferID{From: t.From, To: t.To}
}

// SettledTransfer is a transfer joined with its persisted lifecycle state,
// the row shape the settlement view returns.
type SettledTransfer struct {
	Transfer
	Status TransferStatus `json:"status"`
}

// SettlementSummary totals the acting member's side of their transfers.
type SettlementSummary struct {
	// Send is the total the member owes others (sum where from == member).
	Send int64 `json:"send"`

	// Receive is the total owed to the member (sum where to == member).
	Receive int64 `json:"receive"`
}

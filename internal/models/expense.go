package models

import "errors"

// SplitKind selects how an expense is divided among members.
type SplitKind string

const (
	// SplitEqual divides a single amount evenly across the participants.
	SplitEqual SplitKind = "EQUAL"

	// SplitItem divides the expense line item by line item, each with its
	// own mode and user set.
	SplitItem SplitKind = "ITEM"
)

// ItemMode selects how one line item is charged to its users.
type ItemMode string

const (
	// ModePerPerson charges UnitPrice once to every user on the item.
	ModePerPerson ItemMode = "PER_PERSON"

	// ModeSharedSplit divides TotalPrice evenly across the item's users.
	ModeSharedSplit ItemMode = "SHARED_SPLIT"
)

// Validation errors surfaced at expense creation time. The settlement
// calculator never sees records that violate these; if one slips through it
// contributes zero obligations instead of failing.
var (
	ErrNoParticipants   = errors.New("equal split requires at least one participant")
	ErrNoItems          = errors.New("item split requires at least one line item")
	ErrItemNoUsers      = errors.New("line item requires at least one user")
	ErrNonPositivePrice = errors.New("amounts and prices must be positive")
	ErrNoPayer          = errors.New("expense requires a payer")
	ErrBadSplitKind     = errors.New("unknown split kind")
)

// Expense is a shared cost fronted by one member of a room.
// Immutable once saved: edits are modeled as delete + re-create.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// RoomID is the settlement context this expense belongs to.
	RoomID string `json:"room_id"`

	// Title is a short human-readable label (e.g. "첫날 저녁").
	Title string `json:"title"`

	// PaidOn is the expense date in YYYY-MM-DD form.
	PaidOn string `json:"paid_on"`

	// PayerName is the display name of the member who fronted the money.
	PayerName string `json:"payer_name"`

	// Split selects between EQUAL and ITEM division.
	Split SplitKind `json:"split"`

	// Amount is the full expense amount in minor currency units.
	// Only meaningful when Split == EQUAL.
	Amount int64 `json:"amount,omitempty"`

	// Participants are the members sharing the cost of an EQUAL expense.
	// May include the payer.
	Participants []string `json:"participants,omitempty"`

	// Items are the rows of an ITEM expense, in entry order.
	Items []LineItem `json:"items,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`
}

// LineItem is one row of an ITEM expense.
type LineItem struct {
	// ID is the unique identifier for the line item (UUID format).
	ID string `json:"id"`

	// Title is the item label (e.g. "아메리카노").
	Title string `json:"title"`

	// Mode selects between PER_PERSON and SHARED_SPLIT charging.
	Mode ItemMode `json:"mode"`

	// UnitPrice is the per-head price for PER_PERSON items.
	UnitPrice int64 `json:"unit_price,omitempty"`

	// TotalPrice is the full item price for SHARED_SPLIT items.
	TotalPrice int64 `json:"total_price,omitempty"`

	// Users are the members this item applies to. The payer may appear
	// here; they count toward the divisor but owe nothing.
	Users []string `json:"users"`
}

// Validate checks the creation-time invariants of an expense.
// Malformed records are rejected here, not during settlement.
func (e *Expense) Validate() error {
	if e.PayerName == "" {
		return ErrNoPayer
	}

	switch e.Split {
	case SplitEqual:
		if len(e.Participants) == 0 {
			return ErrNoParticipants
		}
		if e.Amount <= 0 {
			return ErrNonPositivePrice
		}
	case SplitItem:
		if len(e.Items) == 0 {
			return ErrNoItems
		}
		for i := range e.Items {
			if err := e.Items[i].Validate(); err != nil {
				return err
			}
		}
	default:
		return ErrBadSplitKind
	}

	return nil
}

// Validate checks the creation-time invariants of a line item.
func (it *LineItem) Validate() error {
	if len(it.Users) == 0 {
		return ErrItemNoUsers
	}
	switch it.Mode {
	case ModePerPerson:
		if it.UnitPrice <= 0 {
			return ErrNonPositivePrice
		}
	case ModeSharedSplit:
		if it.TotalPrice <= 0 {
			return ErrNonPositivePrice
		}
	default:
		return ErrBadSplitKind
	}
	return nil
}

// Package service holds the business logic between the HTTP handlers and
// the store: expense validation, room membership, and the settlement
// engine's view assembly and transfer lifecycle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mobidic-dev/tripsettle/internal/calculator"
	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/storage"
)

var (
	// ErrUnknownTransfer means the referenced transfer is not part of the
	// current aggregation, usually because expenses changed between view
	// and action. Callers should recompute and retry.
	ErrUnknownTransfer = errors.New("transfer not found in current settlement")

	// ErrIllegalTransition means the requested lifecycle change is not
	// permitted: wrong current state, or the caller is not the transfer's
	// creditor. Nothing is mutated on rejection.
	ErrIllegalTransition = errors.New("illegal transfer transition")

	// ErrNotRoomMember means the acting user is not in the room.
	ErrNotRoomMember = errors.New("not a member of this room")
)

// SettlementService recomputes a room's transfers from its expenses and
// joins them against the persisted status table. Transfers themselves are
// never stored; only their request/done lifecycle is.
//
// Status writes are last-write-wins: two members acting on the same
// transfer at once (say a bulk request racing a single request) resolve in
// whichever order the store applies them. The engine does not add locking
// on top; the states involved converge to REQUESTED either way.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a SettlementService on the given store.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// SettlementView is the assembled settlement of one room from one member's
// point of view.
type SettlementView struct {
	// Me is the acting member's display name.
	Me string `json:"me"`

	// Transfers is the full ledger, every pairwise transfer in the room,
	// sorted by descending amount.
	Transfers []models.SettledTransfer `json:"transfers"`

	// MyTransfers are the transfers where Me is debtor or creditor.
	MyTransfers []models.SettledTransfer `json:"my_transfers"`

	// Requestables are the transfers Me may request right now:
	// incoming (to == Me) and still READY. Exactly the bulk-request set.
	Requestables []models.SettledTransfer `json:"requestables"`

	// Summary totals MyTransfers by direction.
	Summary models.SettlementSummary `json:"summary"`
}

// ComputeSettlement recomputes the room's transfers and joins them with
// their persisted statuses. me must be a member of the room.
func (s *SettlementService) ComputeSettlement(ctx context.Context, roomID, me string) (*SettlementView, error) {
	if err := s.ensureMember(ctx, roomID, me); err != nil {
		return nil, err
	}
	return s.assemble(ctx, roomID, me)
}

// assemble builds the settlement view without re-checking membership,
// for use after the caller already passed a membership gate.
func (s *SettlementService) assemble(ctx context.Context, roomID, me string) (*SettlementView, error) {
	expenses, err := s.store.ListExpensesByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	statuses, err := s.store.GetStatusTable(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status table: %w", err)
	}

	view := &SettlementView{Me: me}
	for _, tr := range calculator.AggregateTransfers(expenses) {
		state, ok := statuses[tr.ID()]
		if !ok || !state.Valid() {
			state = models.StatusReady
		}
		st := models.SettledTransfer{Transfer: tr, Status: state}
		view.Transfers = append(view.Transfers, st)

		if tr.From == me || tr.To == me {
			view.MyTransfers = append(view.MyTransfers, st)
		}
		if tr.From == me {
			view.Summary.Send += tr.Amount
		}
		if tr.To == me {
			view.Summary.Receive += tr.Amount
			if state == models.StatusReady {
				view.Requestables = append(view.Requestables, st)
			}
		}
	}

	return view, nil
}

// RequestTransfer moves one READY transfer to REQUESTED. Only the
// transfer's creditor may request it.
func (s *SettlementService) RequestTransfer(ctx context.Context, roomID, me string, id models.TransferID) (*SettlementView, error) {
	return s.transition(ctx, roomID, me, id, models.StatusReady, models.StatusRequested, "request")
}

// ResendTransfer re-affirms a REQUESTED transfer so the debtor can be
// notified again. Idempotent; the state never moves.
func (s *SettlementService) ResendTransfer(ctx context.Context, roomID, me string, id models.TransferID) (*SettlementView, error) {
	return s.transition(ctx, roomID, me, id, models.StatusRequested, models.StatusRequested, "resend")
}

// MarkTransferDone moves a REQUESTED transfer to DONE once the creditor
// confirms the money arrived out-of-band. One-way: nothing leaves DONE.
func (s *SettlementService) MarkTransferDone(ctx context.Context, roomID, me string, id models.TransferID) (*SettlementView, error) {
	return s.transition(ctx, roomID, me, id, models.StatusRequested, models.StatusDone, "mark done")
}

// transition applies one state-machine step for a single transfer:
// verify membership, find the transfer in the current aggregation, check
// creditor and current state, then write. Rejections leave the table
// untouched.
func (s *SettlementService) transition(ctx context.Context, roomID, me string, id models.TransferID, want, next models.TransferStatus, op string) (*SettlementView, error) {
	if err := s.ensureMember(ctx, roomID, me); err != nil {
		return nil, err
	}

	view, err := s.assemble(ctx, roomID, me)
	if err != nil {
		return nil, err
	}

	current, ok := findTransfer(view.Transfers, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownTransfer, id.From, id.To)
	}
	if id.To != me {
		return nil, fmt.Errorf("%w: only the creditor may %s a transfer", ErrIllegalTransition, op)
	}
	if current.Status != want {
		return nil, fmt.Errorf("%w: cannot %s a %s transfer", ErrIllegalTransition, op, current.Status)
	}

	if err := s.store.SetStatuses(ctx, roomID, []models.TransferID{id}, next); err != nil {
		return nil, fmt.Errorf("failed to update transfer status: %w", err)
	}

	slog.Info("Transfer status updated",
		"room_id", roomID, "from", id.From, "to", id.To, "op", op, "state", next)

	return s.assemble(ctx, roomID, me)
}

// RequestAllReady moves every requestable transfer of me (incoming and
// READY) to REQUESTED in one atomic bulk write. Transfers already
// REQUESTED or DONE are untouched. Equivalent to requesting each element
// of the requestable set individually against the same snapshot.
func (s *SettlementService) RequestAllReady(ctx context.Context, roomID, me string) (*SettlementView, error) {
	if err := s.ensureMember(ctx, roomID, me); err != nil {
		return nil, err
	}

	view, err := s.assemble(ctx, roomID, me)
	if err != nil {
		return nil, err
	}

	if len(view.Requestables) == 0 {
		return view, nil
	}

	ids := make([]models.TransferID, 0, len(view.Requestables))
	for _, st := range view.Requestables {
		ids = append(ids, st.ID())
	}

	if err := s.store.SetStatuses(ctx, roomID, ids, models.StatusRequested); err != nil {
		return nil, fmt.Errorf("failed to bulk-request transfers: %w", err)
	}

	slog.Info("Bulk transfer request", "room_id", roomID, "creditor", me, "count", len(ids))

	return s.assemble(ctx, roomID, me)
}

func (s *SettlementService) ensureMember(ctx context.Context, roomID, me string) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasMember(me) {
		return fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}
	return nil
}

func findTransfer(transfers []models.SettledTransfer, id models.TransferID) (models.SettledTransfer, bool) {
	for _, st := range transfers {
		if st.ID() == id {
			return st, true
		}
	}
	return models.SettledTransfer{}, false
}

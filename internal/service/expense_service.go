package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/storage"
)

// ErrInvalidRecord wraps every creation-time invariant violation of an
// expense or line item.
var ErrInvalidRecord = errors.New("invalid expense record")

// ExpenseService validates and persists expenses. Records are immutable
// once saved; removing one may orphan transfer statuses, which the
// settlement join then simply never surfaces.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates an ExpenseService on the given store.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense validates the record against the model invariants and the
// room's member list, then persists it. The invariants are enforced here,
// at creation time; the settlement calculator assumes they held.
func (s *ExpenseService) CreateExpense(ctx context.Context, me string, expense *models.Expense) (*models.Expense, error) {
	room, err := s.store.GetRoom(ctx, expense.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(me) {
		return nil, fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}

	if err := expense.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !room.HasMember(expense.PayerName) {
		return nil, fmt.Errorf("%w: payer %q is not a room member", ErrInvalidRecord, expense.PayerName)
	}
	for _, p := range expense.Participants {
		if !room.HasMember(p) {
			return nil, fmt.Errorf("%w: participant %q is not a room member", ErrInvalidRecord, p)
		}
	}
	for i := range expense.Items {
		for _, u := range expense.Items[i].Users {
			if !room.HasMember(u) {
				return nil, fmt.Errorf("%w: item user %q is not a room member", ErrInvalidRecord, u)
			}
		}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	slog.Info("Expense created",
		"room_id", expense.RoomID, "expense_id", expense.ID,
		"payer", expense.PayerName, "split", expense.Split)

	return expense, nil
}

// ListExpenses returns the room's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, roomID, me string) ([]*models.Expense, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(me) {
		return nil, fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}
	return s.store.ListExpensesByRoom(ctx, roomID)
}

// DeleteExpense removes an expense from its room. Any transfer status
// whose underlying debt disappears with it is left behind as an orphan.
func (s *ExpenseService) DeleteExpense(ctx context.Context, roomID, me, expenseID string) error {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasMember(me) {
		return fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.RoomID != roomID {
		return fmt.Errorf("expense not found: %s", expenseID)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "room_id", roomID, "expense_id", expenseID, "by", me)
	return nil
}

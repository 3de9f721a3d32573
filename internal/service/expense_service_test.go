package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

func TestCreateExpenseValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B", "C")

	tests := []struct {
		name    string
		expense *models.Expense
		wantErr error
	}{
		{
			name: "valid equal expense",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitEqual,
				Amount: 300, Participants: []string{"A", "B", "C"},
			},
		},
		{
			name: "valid item expense",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitItem,
				Items: []models.LineItem{
					{Mode: models.ModePerPerson, UnitPrice: 4500, Users: []string{"B", "C"}},
				},
			},
		},
		{
			name: "equal expense with no participants",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitEqual, Amount: 300,
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "equal expense with non-positive amount",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitEqual,
				Amount: 0, Participants: []string{"A", "B"},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "item expense with no items",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitItem,
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "line item with no users",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitItem,
				Items: []models.LineItem{
					{Mode: models.ModeSharedSplit, TotalPrice: 900},
				},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "line item with non-positive price",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitItem,
				Items: []models.LineItem{
					{Mode: models.ModeSharedSplit, TotalPrice: -100, Users: []string{"B"}},
				},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "missing payer",
			expense: &models.Expense{
				RoomID: roomID, Split: models.SplitEqual,
				Amount: 300, Participants: []string{"A"},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "unknown split kind",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: "RANDOM",
				Amount: 300, Participants: []string{"A"},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "payer outside the room",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "D", Split: models.SplitEqual,
				Amount: 300, Participants: []string{"A", "B"},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "participant outside the room",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitEqual,
				Amount: 300, Participants: []string{"A", "D"},
			},
			wantErr: ErrInvalidRecord,
		},
		{
			name: "item user outside the room",
			expense: &models.Expense{
				RoomID: roomID, PayerName: "A", Split: models.SplitItem,
				Items: []models.LineItem{
					{Mode: models.ModePerPerson, UnitPrice: 100, Users: []string{"D"}},
				},
			},
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := svc.CreateExpense(ctx, "A", tt.expense)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CreateExpense failed: %v", err)
				}
				if created.ID == "" {
					t.Error("expected ID to be generated")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateExpenseRequiresMembership(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)

	roomID := newTestRoom(t, store, "A", "B")
	expense := &models.Expense{
		RoomID: roomID, PayerName: "A", Split: models.SplitEqual,
		Amount: 100, Participants: []string{"A", "B"},
	}

	if _, err := svc.CreateExpense(context.Background(), "외부인", expense); !errors.Is(err, ErrNotRoomMember) {
		t.Errorf("error = %v, want ErrNotRoomMember", err)
	}
}

func TestDeleteExpenseChecksRoom(t *testing.T) {
	store := newTestStore(t)
	svc := NewExpenseService(store)
	ctx := context.Background()

	roomA := newTestRoom(t, store, "A")
	roomB := newTestRoom(t, store, "A")
	addEqualExpense(t, store, roomA, "A", 100, "A")

	expenses, err := svc.ListExpenses(ctx, roomA, "A")
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("expenses = %+v, want one", expenses)
	}

	// Deleting through the wrong room must not work.
	if err := svc.DeleteExpense(ctx, roomB, "A", expenses[0].ID); err == nil {
		t.Error("expected error deleting an expense through another room")
	}

	if err := svc.DeleteExpense(ctx, roomA, "A", expenses[0].ID); err != nil {
		t.Errorf("DeleteExpense failed: %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/storage"
	"github.com/mobidic-dev/tripsettle/internal/storage/sqlite"
)

// newTestStore creates a temp-file sqlite store that cleans up after the test.
func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "tripsettle-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// newTestRoom creates a room with the given members and returns its ID.
func newTestRoom(t *testing.T, store storage.Store, members ...string) string {
	t.Helper()

	room := &models.Room{Name: "trip", Members: members, CreatedBy: "test"}
	if err := store.CreateRoom(context.Background(), room); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}
	return room.ID
}

func addEqualExpense(t *testing.T, store storage.Store, roomID, payer string, amount int64, participants ...string) {
	t.Helper()

	expense := &models.Expense{
		RoomID:       roomID,
		PayerName:    payer,
		Split:        models.SplitEqual,
		Amount:       amount,
		Participants: participants,
	}
	if err := store.CreateExpense(context.Background(), expense); err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
}

func findStatus(t *testing.T, view *SettlementView, from, to string) models.TransferStatus {
	t.Helper()

	for _, st := range view.Transfers {
		if st.From == from && st.To == to {
			return st.Status
		}
	}
	t.Fatalf("transfer %s->%s not in view: %+v", from, to, view.Transfers)
	return ""
}

func TestComputeSettlement(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B", "C")
	addEqualExpense(t, store, roomID, "A", 300, "A", "B", "C")

	view, err := svc.ComputeSettlement(ctx, roomID, "A")
	if err != nil {
		t.Fatalf("ComputeSettlement failed: %v", err)
	}

	if len(view.Transfers) != 2 {
		t.Fatalf("transfers = %+v, want B->A:100 and C->A:100", view.Transfers)
	}
	for _, st := range view.Transfers {
		if st.To != "A" || st.Amount != 100 {
			t.Errorf("unexpected transfer %+v", st)
		}
		if st.Status != models.StatusReady {
			t.Errorf("fresh transfer status = %s, want READY", st.Status)
		}
	}

	if view.Summary.Send != 0 || view.Summary.Receive != 200 {
		t.Errorf("summary = %+v, want send 0, receive 200", view.Summary)
	}
	if len(view.Requestables) != 2 {
		t.Errorf("requestables = %+v, want both incoming transfers", view.Requestables)
	}

	// The debtor sees the same transfers but no requestables.
	bView, err := svc.ComputeSettlement(ctx, roomID, "B")
	if err != nil {
		t.Fatalf("ComputeSettlement failed: %v", err)
	}
	if bView.Summary.Send != 100 || bView.Summary.Receive != 0 {
		t.Errorf("B summary = %+v, want send 100, receive 0", bView.Summary)
	}
	if len(bView.Requestables) != 0 {
		t.Errorf("B requestables = %+v, want none", bView.Requestables)
	}
	if len(bView.MyTransfers) != 1 {
		t.Errorf("B my transfers = %+v, want just B->A", bView.MyTransfers)
	}
}

func TestComputeSettlementRejectsNonMembers(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)

	roomID := newTestRoom(t, store, "A", "B")

	if _, err := svc.ComputeSettlement(context.Background(), roomID, "누구세요"); !errors.Is(err, ErrNotRoomMember) {
		t.Errorf("error = %v, want ErrNotRoomMember", err)
	}
}

func TestTransferLifecycle(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B")
	addEqualExpense(t, store, roomID, "A", 2000, "A", "B")
	ba := models.TransferID{From: "B", To: "A"}

	t.Run("creditor requests a READY transfer", func(t *testing.T) {
		view, err := svc.RequestTransfer(ctx, roomID, "A", ba)
		if err != nil {
			t.Fatalf("RequestTransfer failed: %v", err)
		}
		if got := findStatus(t, view, "B", "A"); got != models.StatusRequested {
			t.Errorf("status = %s, want REQUESTED", got)
		}
	})

	t.Run("requesting twice is rejected", func(t *testing.T) {
		if _, err := svc.RequestTransfer(ctx, roomID, "A", ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("error = %v, want ErrIllegalTransition", err)
		}
	})

	t.Run("resend keeps the state REQUESTED", func(t *testing.T) {
		view, err := svc.ResendTransfer(ctx, roomID, "A", ba)
		if err != nil {
			t.Fatalf("ResendTransfer failed: %v", err)
		}
		if got := findStatus(t, view, "B", "A"); got != models.StatusRequested {
			t.Errorf("status after resend = %s, want REQUESTED", got)
		}
	})

	t.Run("debtor cannot mark the transfer done", func(t *testing.T) {
		if _, err := svc.MarkTransferDone(ctx, roomID, "B", ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("error = %v, want ErrIllegalTransition", err)
		}
		// Rejection must not have mutated anything.
		view, err := svc.ComputeSettlement(ctx, roomID, "A")
		if err != nil {
			t.Fatalf("ComputeSettlement failed: %v", err)
		}
		if got := findStatus(t, view, "B", "A"); got != models.StatusRequested {
			t.Errorf("status after rejected markDone = %s, want REQUESTED", got)
		}
	})

	t.Run("creditor marks the transfer done", func(t *testing.T) {
		view, err := svc.MarkTransferDone(ctx, roomID, "A", ba)
		if err != nil {
			t.Fatalf("MarkTransferDone failed: %v", err)
		}
		if got := findStatus(t, view, "B", "A"); got != models.StatusDone {
			t.Errorf("status = %s, want DONE", got)
		}
	})

	t.Run("DONE is terminal", func(t *testing.T) {
		if _, err := svc.RequestTransfer(ctx, roomID, "A", ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("request after done: error = %v, want ErrIllegalTransition", err)
		}
		if _, err := svc.ResendTransfer(ctx, roomID, "A", ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("resend after done: error = %v, want ErrIllegalTransition", err)
		}
		if _, err := svc.MarkTransferDone(ctx, roomID, "A", ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("markDone after done: error = %v, want ErrIllegalTransition", err)
		}
	})
}

func TestMarkDoneRequiresRequestedState(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B")
	addEqualExpense(t, store, roomID, "A", 1000, "A", "B")

	// READY -> DONE skips REQUESTED and must be rejected.
	if _, err := svc.MarkTransferDone(ctx, roomID, "A", models.TransferID{From: "B", To: "A"}); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestNonCreditorCannotRequest(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B", "C")
	addEqualExpense(t, store, roomID, "A", 300, "A", "B", "C")

	// Neither the debtor nor a bystander may request B->A.
	ba := models.TransferID{From: "B", To: "A"}
	for _, caller := range []string{"B", "C"} {
		if _, err := svc.RequestTransfer(ctx, roomID, caller, ba); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("caller %s: error = %v, want ErrIllegalTransition", caller, err)
		}
	}
}

func TestUnknownTransfer(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B")
	addEqualExpense(t, store, roomID, "A", 1000, "A", "B")

	if _, err := svc.RequestTransfer(ctx, roomID, "A", models.TransferID{From: "C", To: "A"}); !errors.Is(err, ErrUnknownTransfer) {
		t.Errorf("error = %v, want ErrUnknownTransfer", err)
	}
}

func TestRequestAllReady(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B", "C", "D")
	addEqualExpense(t, store, roomID, "A", 3000, "A", "B", "C")
	addEqualExpense(t, store, roomID, "D", 500, "A", "D")

	// A pre-requests B->A so the bulk run must leave it untouched and
	// pick up only C->A. D->A does not exist; A owes D instead.
	ba := models.TransferID{From: "B", To: "A"}
	if _, err := svc.RequestTransfer(ctx, roomID, "A", ba); err != nil {
		t.Fatalf("RequestTransfer failed: %v", err)
	}
	if _, err := svc.MarkTransferDone(ctx, roomID, "A", ba); err != nil {
		t.Fatalf("MarkTransferDone failed: %v", err)
	}

	view, err := svc.RequestAllReady(ctx, roomID, "A")
	if err != nil {
		t.Fatalf("RequestAllReady failed: %v", err)
	}

	if got := findStatus(t, view, "B", "A"); got != models.StatusDone {
		t.Errorf("B->A status = %s, want DONE untouched", got)
	}
	if got := findStatus(t, view, "C", "A"); got != models.StatusRequested {
		t.Errorf("C->A status = %s, want REQUESTED", got)
	}
	if got := findStatus(t, view, "A", "D"); got != models.StatusReady {
		t.Errorf("A->D status = %s, want READY (A is not its creditor)", got)
	}
	if len(view.Requestables) != 0 {
		t.Errorf("requestables after bulk = %+v, want none", view.Requestables)
	}
}

// Bulk-request must land in the same place as requesting each element of
// the requestable set one by one from the same snapshot.
func TestRequestAllMatchesIndividualRequests(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*SettlementService, string) {
		store := newTestStore(t)
		svc := NewSettlementService(store)
		roomID := newTestRoom(t, store, "A", "B", "C")
		addEqualExpense(t, store, roomID, "A", 3000, "A", "B", "C")
		addEqualExpense(t, store, roomID, "B", 900, "A", "B", "C")
		return svc, roomID
	}

	bulkSvc, bulkRoom := setup(t)
	bulkView, err := bulkSvc.RequestAllReady(ctx, bulkRoom, "A")
	if err != nil {
		t.Fatalf("RequestAllReady failed: %v", err)
	}

	oneSvc, oneRoom := setup(t)
	snapshot, err := oneSvc.ComputeSettlement(ctx, oneRoom, "A")
	if err != nil {
		t.Fatalf("ComputeSettlement failed: %v", err)
	}
	var oneView *SettlementView
	for _, st := range snapshot.Requestables {
		oneView, err = oneSvc.RequestTransfer(ctx, oneRoom, "A", st.ID())
		if err != nil {
			t.Fatalf("RequestTransfer %+v failed: %v", st, err)
		}
	}

	if len(bulkView.Transfers) != len(oneView.Transfers) {
		t.Fatalf("views differ: bulk %+v vs individual %+v", bulkView.Transfers, oneView.Transfers)
	}
	for i := range bulkView.Transfers {
		if bulkView.Transfers[i] != oneView.Transfers[i] {
			t.Errorf("transfer[%d]: bulk %+v vs individual %+v", i, bulkView.Transfers[i], oneView.Transfers[i])
		}
	}
}

// Deleting the expenses behind a transfer orphans its status row; the view
// must stop surfacing it rather than deleting the row.
func TestOrphanedStatusIsHidden(t *testing.T) {
	store := newTestStore(t)
	svc := NewSettlementService(store)
	ctx := context.Background()

	roomID := newTestRoom(t, store, "A", "B")

	expense := &models.Expense{
		RoomID:       roomID,
		PayerName:    "A",
		Split:        models.SplitEqual,
		Amount:       1000,
		Participants: []string{"A", "B"},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	ba := models.TransferID{From: "B", To: "A"}
	if _, err := svc.RequestTransfer(ctx, roomID, "A", ba); err != nil {
		t.Fatalf("RequestTransfer failed: %v", err)
	}

	if err := store.DeleteExpense(ctx, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	view, err := svc.ComputeSettlement(ctx, roomID, "A")
	if err != nil {
		t.Fatalf("ComputeSettlement failed: %v", err)
	}
	if len(view.Transfers) != 0 {
		t.Errorf("transfers after delete = %+v, want none", view.Transfers)
	}

	// The orphaned row is still in the table, and snaps back into place
	// if the same debt reappears.
	table, err := store.GetStatusTable(ctx, roomID)
	if err != nil {
		t.Fatalf("GetStatusTable failed: %v", err)
	}
	if table[ba] != models.StatusRequested {
		t.Errorf("orphaned status = %s, want REQUESTED retained", table[ba])
	}

	addEqualExpense(t, store, roomID, "A", 500, "A", "B")
	view, err = svc.ComputeSettlement(ctx, roomID, "A")
	if err != nil {
		t.Fatalf("ComputeSettlement failed: %v", err)
	}
	if got := findStatus(t, view, "B", "A"); got != models.StatusRequested {
		t.Errorf("revived transfer status = %s, want REQUESTED from the old row", got)
	}
}

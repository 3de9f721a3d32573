// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// Store defines the persistence operations the services need.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateRoom persists a new room. ID, invite code, and timestamps are
	// populated by the store when unset.
	CreateRoom(ctx context.Context, room *models.Room) error

	// GetRoom retrieves a room with its member list.
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)

	// GetRoomByInviteCode retrieves a room by its invite code.
	GetRoomByInviteCode(ctx context.Context, code string) (*models.Room, error)

	// ListRoomsByMember retrieves all rooms containing the given member,
	// newest first.
	ListRoomsByMember(ctx context.Context, memberName string) ([]*models.Room, error)

	// AddRoomMembers appends members to a room, skipping names already
	// present.
	AddRoomMembers(ctx context.Context, roomID string, members []string) error

	// CreateExpense persists a new expense with its items. The expense ID
	// and CreatedAt are populated by the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves a single expense with its items.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByRoom retrieves all expenses of a room, newest first.
	// The settlement engine treats this sequence as append-only input.
	ListExpensesByRoom(ctx context.Context, roomID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its items. Transfer statuses
	// are left untouched; orphaned rows simply stop being joined.
	DeleteExpense(ctx context.Context, expenseID string) error

	// GetStatusTable loads the persisted transfer lifecycle states of a
	// room. Transfers without a row are implicitly READY.
	GetStatusTable(ctx context.Context, roomID string) (map[models.TransferID]models.TransferStatus, error)

	// SetStatuses moves all given transfer identities of a room to the
	// same state in one transaction. Upserts; rows are never deleted.
	SetStatuses(ctx context.Context, roomID string, ids []models.TransferID, state models.TransferStatus) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when
	// no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}

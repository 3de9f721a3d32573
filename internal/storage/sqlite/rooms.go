package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// inviteCodeAlphabet leaves out easily confused characters (0/O, 1/I/L).
const inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

// CreateRoom persists a new room and its initial members.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}
	if room.InviteCode == "" {
		code, err := newInviteCode()
		if err != nil {
			return fmt.Errorf("failed to generate invite code: %w", err)
		}
		room.InviteCode = code
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rooms (id, name, invite_code, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		room.ID, room.Name, room.InviteCode, room.CreatedBy, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	for i, name := range room.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO room_members (room_id, name, joined_at) VALUES (?, ?, ?)",
			room.ID, name, room.CreatedAt+int64(i),
		)
		if err != nil {
			return fmt.Errorf("failed to insert room member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoom retrieves a room with its member list.
func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	return s.getRoomBy(ctx, "id", roomID)
}

// GetRoomByInviteCode retrieves a room by its invite code.
func (s *SQLiteStore) GetRoomByInviteCode(ctx context.Context, code string) (*models.Room, error) {
	return s.getRoomBy(ctx, "invite_code", code)
}

func (s *SQLiteStore) getRoomBy(ctx context.Context, column, value string) (*models.Room, error) {
	room := &models.Room{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, invite_code, created_by, created_at FROM rooms WHERE "+column+" = ?",
		value,
	).Scan(&room.ID, &room.Name, &room.InviteCode, &room.CreatedBy, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room not found: %s", value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	members, err := s.roomMembers(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.Members = members

	return room, nil
}

func (s *SQLiteStore) roomMembers(ctx context.Context, roomID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM room_members WHERE room_id = ? ORDER BY joined_at, name",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get room members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan room member: %w", err)
		}
		members = append(members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate room members: %w", err)
	}

	return members, nil
}

// ListRoomsByMember retrieves all rooms containing the given member, newest first.
func (s *SQLiteStore) ListRoomsByMember(ctx context.Context, memberName string) ([]*models.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.name, r.invite_code, r.created_by, r.created_at
		 FROM rooms r JOIN room_members m ON m.room_id = r.id
		 WHERE m.name = ? ORDER BY r.created_at DESC`,
		memberName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.InviteCode, &room.CreatedBy, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	for _, room := range rooms {
		members, err := s.roomMembers(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		room.Members = members
	}

	return rooms, nil
}

// AddRoomMembers appends members to a room, skipping names already present.
func (s *SQLiteStore) AddRoomMembers(ctx context.Context, roomID string, members []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, name := range members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO room_members (room_id, name, joined_at) VALUES (?, ?, ?)",
			roomID, name, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert room member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

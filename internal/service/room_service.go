package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mobidic-dev/tripsettle/internal/models"
	"github.com/mobidic-dev/tripsettle/internal/storage"
)

// ErrEmptyRoomName means a room was created without a name.
var ErrEmptyRoomName = errors.New("room name required")

// RoomService manages settlement contexts and their member lists.
type RoomService struct {
	store storage.Store
}

// NewRoomService creates a RoomService on the given store.
func NewRoomService(store storage.Store) *RoomService {
	return &RoomService{store: store}
}

// CreateRoom creates a room with the creator as its first member and a
// generated invite code.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID, creatorName, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRoomName
	}

	room := &models.Room{
		Name:      name,
		Members:   []string{creatorName},
		CreatedBy: creatorID,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	slog.Info("Room created", "room_id", room.ID, "name", room.Name, "invite_code", room.InviteCode)
	return room, nil
}

// GetRoom retrieves a room the caller belongs to.
func (s *RoomService) GetRoom(ctx context.Context, roomID, me string) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(me) {
		return nil, fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}
	return room, nil
}

// ListRooms returns all rooms the member belongs to, newest first.
func (s *RoomService) ListRooms(ctx context.Context, memberName string) ([]*models.Room, error) {
	return s.store.ListRoomsByMember(ctx, memberName)
}

// JoinRoom adds the caller to the room behind an invite code. Joining a
// room you are already in is a no-op.
func (s *RoomService) JoinRoom(ctx context.Context, inviteCode, memberName string) (*models.Room, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	room, err := s.store.GetRoomByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !room.HasMember(memberName) {
		if err := s.store.AddRoomMembers(ctx, room.ID, []string{memberName}); err != nil {
			return nil, fmt.Errorf("failed to join room: %w", err)
		}
		room.Members = append(room.Members, memberName)
		slog.Info("Member joined room", "room_id", room.ID, "member", memberName)
	}

	return room, nil
}

// AddMembers appends members to a room the caller belongs to. Names
// already present are skipped. Adding a member never disturbs existing
// expenses or transfer statuses.
func (s *RoomService) AddMembers(ctx context.Context, roomID, me string, members []string) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasMember(me) {
		return nil, fmt.Errorf("%w: %s", ErrNotRoomMember, me)
	}

	var fresh []string
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m != "" && !room.HasMember(m) {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return room, nil
	}

	if err := s.store.AddRoomMembers(ctx, roomID, fresh); err != nil {
		return nil, fmt.Errorf("failed to add members: %w", err)
	}

	slog.Info("Members added to room", "room_id", roomID, "members", fresh)
	return s.store.GetRoom(ctx, roomID)
}

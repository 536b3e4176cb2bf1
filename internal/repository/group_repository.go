package repository

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// joinCodeAlphabet has no 0/O or 1/I so codes survive being read aloud.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GroupDB is the database handle a GroupRepository needs. Group creation and
// dissolution span multiple statements, so the handle must be able to start a
// transaction. Both pgxpool.Pool and pgx.Tx qualify.
type GroupDB interface {
	database.PGXDB
	database.TxBeginner
}

// GroupRepository handles pantry group database operations.
type GroupRepository struct {
	db GroupDB
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db GroupDB) *GroupRepository {
	return &GroupRepository{db: db}
}

// NewJoinCode returns a random join code.
func NewJoinCode() (string, error) {
	buf := make([]byte, models.JoinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf), nil
}

// Create makes a new group with the creator as host and first member. The
// group row and the host membership are written in one transaction.
func (r *GroupRepository) Create(ctx context.Context, name string, hostID int64) (*models.PantryGroup, error) {
	code, err := NewJoinCode()
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	group := models.PantryGroup{Name: name, JoinCode: code, HostID: hostID}
	err = tx.QueryRow(ctx, `
		INSERT INTO pantry_groups (name, join_code, host_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, name, code, hostID).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, is_host)
		VALUES ($1, $2, TRUE)
	`, group.ID, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to add host member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}
	return &group, nil
}

// GetByID retrieves a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int) (*models.PantryGroup, error) {
	var g models.PantryGroup
	err := r.db.QueryRow(ctx, `
		SELECT id, name, join_code, host_id, created_at
		FROM pantry_groups WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.JoinCode, &g.HostID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

// GetByJoinCode retrieves a group by its join code.
func (r *GroupRepository) GetByJoinCode(ctx context.Context, code string) (*models.PantryGroup, error) {
	var g models.PantryGroup
	err := r.db.QueryRow(ctx, `
		SELECT id, name, join_code, host_id, created_at
		FROM pantry_groups WHERE join_code = $1
	`, code).Scan(&g.ID, &g.Name, &g.JoinCode, &g.HostID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get group by join code: %w", err)
	}
	return &g, nil
}

// GetByMember retrieves the group a user belongs to, or pgx.ErrNoRows wrapped
// if they are in none.
func (r *GroupRepository) GetByMember(ctx context.Context, userID int64) (*models.PantryGroup, error) {
	var g models.PantryGroup
	err := r.db.QueryRow(ctx, `
		SELECT g.id, g.name, g.join_code, g.host_id, g.created_at
		FROM pantry_groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at
		LIMIT 1
	`, userID).Scan(&g.ID, &g.Name, &g.JoinCode, &g.HostID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get group for member: %w", err)
	}
	return &g, nil
}

// AddMember adds a user to a group. Joining a group you are already in is a
// no-op.
func (r *GroupRepository) AddMember(ctx context.Context, groupID int, userID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// RemoveMember removes a user from a group. Returns the number of removed
// rows.
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID int, userID int64) (int, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove group member: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ListMembers retrieves the members of a group, host first then by join time.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID int) ([]models.GroupMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, group_id, user_id, is_host, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY is_host DESC, joined_at
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.IsHost, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group members: %w", err)
	}
	return members, nil
}

// Dissolve deletes a group, detaching its ingredients back to their owners.
// Only the host may dissolve. Membership rows go with the group via cascade.
func (r *GroupRepository) Dissolve(ctx context.Context, groupID int, hostID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE ingredients SET group_id = NULL, updated_at = NOW() WHERE group_id = $1
	`, groupID)
	if err != nil {
		return fmt.Errorf("failed to detach group ingredients: %w", err)
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM pantry_groups WHERE id = $1 AND host_id = $2
	`, groupID, hostID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit group dissolution: %w", err)
	}
	return nil
}

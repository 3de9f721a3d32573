package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// CreateExpense persists a new expense with its participants and items.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.PaidOn == "" {
		expense.PaidOn = time.Now().Format("2006-01-02")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, room_id, title, paid_on, payer_name, split, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.RoomID, expense.Title, expense.PaidOn,
		expense.PayerName, string(expense.Split), expense.Amount, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, name := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_participants (expense_id, name) VALUES (?, ?)",
			expense.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO line_items (id, expense_id, position, title, mode, unit_price, total_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, expense.ID, i, item.Title, string(item.Mode), item.UnitPrice, item.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		for _, name := range item.Users {
			_, err = tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO line_item_users (item_id, name) VALUES (?, ?)",
				item.ID, name,
			)
			if err != nil {
				return fmt.Errorf("failed to insert line item user: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves a single expense with its participants and items.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var split string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, room_id, title, paid_on, payer_name, split, amount, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.RoomID, &expense.Title, &expense.PaidOn,
		&expense.PayerName, &split, &expense.Amount, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.Split = models.SplitKind(split)

	if err := s.fillExpense(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByRoom retrieves all expenses of a room, newest first.
func (s *SQLiteStore) ListExpensesByRoom(ctx context.Context, roomID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, title, paid_on, payer_name, split, amount, created_at
		 FROM expenses WHERE room_id = ? ORDER BY created_at DESC, id`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var split string
		if err := rows.Scan(&expense.ID, &expense.RoomID, &expense.Title, &expense.PaidOn,
			&expense.PayerName, &split, &expense.Amount, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.Split = models.SplitKind(split)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.fillExpense(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// fillExpense loads the participants and items of an already-scanned expense.
func (s *SQLiteStore) fillExpense(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM expense_participants WHERE expense_id = ? ORDER BY name",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.Participants = append(expense.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		`SELECT id, title, mode, unit_price, total_price
		 FROM line_items WHERE expense_id = ? ORDER BY position`,
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get line items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item models.LineItem
		var mode string
		if err := itemRows.Scan(&item.ID, &item.Title, &mode, &item.UnitPrice, &item.TotalPrice); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		item.Mode = models.ItemMode(mode)
		expense.Items = append(expense.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate line items: %w", err)
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		userRows, err := s.db.QueryContext(ctx,
			"SELECT name FROM line_item_users WHERE item_id = ? ORDER BY name",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get line item users: %w", err)
		}

		for userRows.Next() {
			var name string
			if err := userRows.Scan(&name); err != nil {
				userRows.Close()
				return fmt.Errorf("failed to scan line item user: %w", err)
			}
			item.Users = append(item.Users, name)
		}
		if err := userRows.Err(); err != nil {
			userRows.Close()
			return fmt.Errorf("failed to iterate line item users: %w", err)
		}
		userRows.Close()
	}

	return nil
}

// DeleteExpense removes an expense; items and participants cascade.
// Transfer statuses are left alone, so a status row whose debt disappears
// becomes an orphan that the settlement join never surfaces.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense not found: %s", expenseID)
	}
	return nil
}

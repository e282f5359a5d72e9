package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
)

const mealColumns = `id, user_id, name, description, date_time, in_diet, created_at, updated_at`

type MealRepository struct {
	db      DBTX
	dialect Dialect
}

func NewMealRepository(db DBTX, dialect Dialect) *MealRepository {
	return &MealRepository{db: db, dialect: dialect}
}

func (r *MealRepository) Create(ctx context.Context, m *domain.Meal) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `INSERT INTO meals (` + mealColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, rebind(r.dialect, query),
		m.ID, m.UserID, m.Name, nullString(m.Description), m.DateTime.UTC(), m.InDiet,
		m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

func (r *MealRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE user_id = ?`
	return r.query(ctx, query, userID)
}

func (r *MealRepository) FindByIDAndOwner(ctx context.Context, id, userID string) ([]domain.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = ? AND user_id = ?`
	return r.query(ctx, query, id, userID)
}

// Update sets only the columns present in patch. The owner is part of the
// predicate so a meal can never be changed through another account.
func (r *MealRepository) Update(ctx context.Context, id, userID string, patch domain.MealPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sets := make([]string, 0, 5)
	args := make([]any, 0, 7)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.DateTime != nil {
		sets = append(sets, "date_time = ?")
		args = append(args, patch.DateTime.UTC())
	}
	if patch.InDiet != nil {
		sets = append(sets, "in_diet = ?")
		args = append(args, *patch.InDiet)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id, userID)

	query := `UPDATE meals SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, rebind(r.dialect, query), args...); err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `DELETE FROM meals WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, rebind(r.dialect, query), id, userID); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

func (r *MealRepository) query(ctx context.Context, query string, args ...any) ([]domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, query), args...)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	meals := []domain.Meal{}
	for rows.Next() {
		var (
			m    domain.Meal
			desc sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &desc, &m.DateTime, &m.InDiet, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		if desc.Valid {
			d := desc.String
			m.Description = &d
		}
		m.DateTime = m.DateTime.UTC()
		m.CreatedAt = m.CreatedAt.UTC()
		m.UpdatedAt = m.UpdatedAt.UTC()
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	return meals, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

package repository

import (
	"context"
	"fmt"

	"gitlab.com/napatw/pantry-bot/internal/database"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

// IngredientRepository handles ingredient database operations.
type IngredientRepository struct {
	db database.PGXDB
}

// NewIngredientRepository creates a new IngredientRepository.
func NewIngredientRepository(db database.PGXDB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

const ingredientColumns = `id, user_id, group_id, name, quantity, category, expiry_raw, expires_at, image_file_id, created_at, updated_at`

// Create adds a new ingredient.
func (r *IngredientRepository) Create(ctx context.Context, ing *models.Ingredient) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO ingredients (user_id, group_id, name, quantity, category, expiry_raw, expires_at, image_file_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, ing.UserID, ing.GroupID, ing.Name, ing.Quantity, ing.Category,
		ing.ExpiryRaw, ing.ExpiresAt, ing.ImageFileID,
	).Scan(&ing.ID, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// GetByID retrieves an ingredient by ID.
func (r *IngredientRepository) GetByID(ctx context.Context, id int) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := r.db.QueryRow(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1
	`, id).Scan(&ing.ID, &ing.UserID, &ing.GroupID, &ing.Name, &ing.Quantity, &ing.Category,
		&ing.ExpiryRaw, &ing.ExpiresAt, &ing.ImageFileID, &ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// GetVisibleToUser retrieves all ingredients the user can see: their own plus
// any belonging to groups they are a member of.
func (r *IngredientRepository) GetVisibleToUser(ctx context.Context, userID int64) ([]models.Ingredient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE user_id = $1
		   OR group_id IN (SELECT group_id FROM group_members WHERE user_id = $1)
		ORDER BY expires_at NULLS LAST, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// GetByGroupID retrieves all ingredients in a shared group pantry.
func (r *IngredientRepository) GetByGroupID(ctx context.Context, groupID int) ([]models.Ingredient, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+ingredientColumns+` FROM ingredients
		WHERE group_id = $1
		ORDER BY expires_at NULLS LAST, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// Update modifies an existing ingredient.
func (r *IngredientRepository) Update(ctx context.Context, ing *models.Ingredient) error {
	_, err := r.db.Exec(ctx, `
		UPDATE ingredients SET
			group_id = $2,
			name = $3,
			quantity = $4,
			category = $5,
			expiry_raw = $6,
			expires_at = $7,
			image_file_id = $8,
			updated_at = NOW()
		WHERE id = $1
	`, ing.ID, ing.GroupID, ing.Name, ing.Quantity, ing.Category,
		ing.ExpiryRaw, ing.ExpiresAt, ing.ImageFileID)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return nil
}

// Delete removes an ingredient owned by the given user. Returns the number of
// deleted rows so callers can tell a missing ingredient from someone else's.
func (r *IngredientRepository) Delete(ctx context.Context, id int, userID int64) (int, error) {
	result, err := r.db.Exec(ctx, `
		DELETE FROM ingredients WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return int(result.RowsAffected()), nil
}

func scanIngredients(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
},
) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(
			&ing.ID, &ing.UserID, &ing.GroupID, &ing.Name, &ing.Quantity, &ing.Category,
			&ing.ExpiryRaw, &ing.ExpiresAt, &ing.ImageFileID, &ing.CreatedAt, &ing.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}
	return ingredients, nil
}

package model

import (
	"database/sql"
	"errors"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// CreateCategory inserts a new category for a user and sets its ID.
func CreateCategory(db *sql.DB, category *models.Category) error {
	query := `
	INSERT INTO categories (user_id, name, direction)
	VALUES (?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(category.UserID, category.Name, string(category.Direction))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	category.ID = id
	return nil
}

// GetCategory retrieves one of the user's categories by id.
func GetCategory(db *sql.DB, userID, categoryID int64) (*models.Category, error) {
	query := `
	SELECT id, user_id, name, direction
	FROM categories
	WHERE id = ? AND user_id = ?`

	row := db.QueryRow(query, categoryID, userID)
	var category models.Category
	var direction string
	err := row.Scan(&category.ID, &category.UserID, &category.Name, &direction)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	category.Direction = models.Direction(direction)
	return &category, nil
}

// ListCategories retrieves the user's categories, optionally filtered by
// direction. An empty direction lists everything.
func ListCategories(db *sql.DB, userID int64, direction models.Direction) ([]models.Category, error) {
	query := `
	SELECT id, user_id, name, direction
	FROM categories
	WHERE user_id = ?`
	args := []interface{}{userID}
	if direction != "" {
		query += " AND direction = ?"
		args = append(args, string(direction))
	}
	query += " ORDER BY name"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		var dir string
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &dir); err != nil {
			return nil, err
		}
		category.Direction = models.Direction(dir)
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// DeleteCategory removes one of the user's categories. Entries pointing at
// it keep their category_id; lookups simply stop resolving.
func DeleteCategory(db *sql.DB, userID, categoryID int64) error {
	res, err := db.Exec("DELETE FROM categories WHERE id = ? AND user_id = ?", categoryID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

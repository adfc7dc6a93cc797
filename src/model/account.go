package model

import (
	"database/sql"
	"errors"

	"github.com/Dionizioaf/opensheets-app-sub000/src/models"
)

var ErrAccountNotFound = errors.New("account not found")

// CreateAccount inserts a new account for a user and sets its ID.
func CreateAccount(db *sql.DB, account *models.Account) error {
	query := `
	INSERT INTO accounts (user_id, name, institution_id, account_number, kind)
	VALUES (?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(account.UserID, account.Name, account.InstitutionID,
		account.AccountNumber, string(account.Kind))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	account.ID = id
	return nil
}

// GetAccount retrieves one of the user's accounts by id.
func GetAccount(db *sql.DB, userID, accountID int64) (*models.Account, error) {
	query := `
	SELECT id, user_id, name, institution_id, account_number, kind, created_at
	FROM accounts
	WHERE id = ? AND user_id = ?`

	row := db.QueryRow(query, accountID, userID)
	var account models.Account
	var kind string
	err := row.Scan(&account.ID, &account.UserID, &account.Name,
		&account.InstitutionID, &account.AccountNumber, &kind, &account.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	account.Kind = models.AccountKind(kind)
	return &account, nil
}

// ListAccounts retrieves all of the user's accounts, oldest first.
func ListAccounts(db *sql.DB, userID int64) ([]models.Account, error) {
	query := `
	SELECT id, user_id, name, institution_id, account_number, kind, created_at
	FROM accounts
	WHERE user_id = ?
	ORDER BY id`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		var kind string
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name,
			&account.InstitutionID, &account.AccountNumber, &kind, &account.CreatedAt); err != nil {
			return nil, err
		}
		account.Kind = models.AccountKind(kind)
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// DeleteAccount removes one of the user's accounts.
func DeleteAccount(db *sql.DB, userID, accountID int64) error {
	res, err := db.Exec("DELETE FROM accounts WHERE id = ? AND user_id = ?", accountID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

package database

import (
	"database/sql"
	stdlog "log"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateLedgerEntriesTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		is_email_verified BOOLEAN DEFAULT FALSE,
		email_verification_token TEXT,
		email_verification_token_expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		institution_id TEXT,
		account_number TEXT,
		kind TEXT NOT NULL DEFAULT 'CHECKING',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		UNIQUE(user_id, name)
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		direction TEXT NOT NULL DEFAULT 'EXPENSE',
		FOREIGN KEY(user_id) REFERENCES users(id),
		UNIQUE(user_id, name, direction)
	);

	CREATE TABLE IF NOT EXISTS ledger_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		account_id INTEGER,
		category_id INTEGER,
		description TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		direction TEXT NOT NULL,
		date TEXT NOT NULL,
		period TEXT NOT NULL,
		series_id TEXT,
		occurrence_index INTEGER,
		occurrence_total INTEGER,
		payment_method TEXT NOT NULL,
		settlement TEXT NOT NULL DEFAULT 'PENDING',
		confirmation_date TEXT,
		payer TEXT,
		audit_note TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(account_id) REFERENCES accounts(id),
		FOREIGN KEY(category_id) REFERENCES categories(id)
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_account_date
		ON ledger_entries(user_id, account_id, date);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_series
		ON ledger_entries(user_id, series_id);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

func migrateLedgerEntriesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='ledger_entries'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'ledger_entries' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'ledger_entries' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'ledger_entries' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'ledger_entries' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(ledger_entries)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'ledger_entries'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'ledger_entries': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'ledger_entries'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'ledger_entries': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'ledger_entries'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'ledger_entries': %v", err)
		}
		return
	}

	if _, ok := columnExists["confirmation_date"]; !ok {
		_, err := DB.Exec("ALTER TABLE ledger_entries ADD COLUMN confirmation_date TEXT")
		if err != nil {
			logger.L.Error("Error adding 'confirmation_date' column to 'ledger_entries' table", "error", err)
		} else {
			logger.L.Info("Added 'confirmation_date' column to 'ledger_entries' table")
		}
	}
	if _, ok := columnExists["payer"]; !ok {
		_, err := DB.Exec("ALTER TABLE ledger_entries ADD COLUMN payer TEXT")
		if err != nil {
			logger.L.Error("Error adding 'payer' column to 'ledger_entries' table", "error", err)
		} else {
			logger.L.Info("Added 'payer' column to 'ledger_entries' table")
		}
	}
	if _, ok := columnExists["audit_note"]; !ok {
		_, err := DB.Exec("ALTER TABLE ledger_entries ADD COLUMN audit_note TEXT")
		if err != nil {
			logger.L.Error("Error adding 'audit_note' column to 'ledger_entries' table", "error", err)
		} else {
			logger.L.Info("Added 'audit_note' column to 'ledger_entries' table")
		}
	}
}

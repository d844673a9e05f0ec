// Package store persists account aliases and keys in a sqlite database under
// the hlcli data directory.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"hlcli/internal/paths"
)

// Account types.
const (
	TypeReadonly  = "readonly"
	TypeAPIWallet = "api_wallet"
)

// Account is one stored account row.
type Account struct {
	ID                  int64   `json:"id"`
	Alias               string  `json:"alias"`
	UserAddress         string  `json:"userAddress"`
	Type                string  `json:"type"`
	Source              string  `json:"source"`
	APIWalletPrivateKey *string `json:"apiWalletPrivateKey"`
	APIWalletPublicKey  *string `json:"apiWalletPublicKey"`
	IsDefault           bool    `json:"isDefault"`
	CreatedAt           int64   `json:"createdAt"`
	UpdatedAt           int64   `json:"updatedAt"`
}

// CreateAccountInput describes a new account. The first account ever created
// becomes the default regardless of SetAsDefault.
type CreateAccountInput struct {
	Alias               string
	UserAddress         string
	Type                string
	Source              string
	APIWalletPrivateKey *string
	APIWalletPublicKey  *string
	SetAsDefault        bool
}

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// Open connects to the account database, creating it and applying migrations
// as needed.
func Open() (*Store, error) {
	if _, err := paths.EnsureDir(); err != nil {
		return nil, err
	}
	dbPath, err := paths.DBPath()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", dbPath, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "001_create_accounts",
		sql: `
		CREATE TABLE IF NOT EXISTS accounts (
		  id INTEGER PRIMARY KEY AUTOINCREMENT,
		  alias TEXT NOT NULL UNIQUE,
		  user_address TEXT NOT NULL,
		  type TEXT NOT NULL CHECK (type IN ('readonly', 'api_wallet')),
		  source TEXT NOT NULL DEFAULT 'cli_import',
		  api_wallet_private_key TEXT,
		  api_wallet_public_key TEXT,
		  is_default INTEGER NOT NULL DEFAULT 0,
		  created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		  updated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);

		CREATE INDEX IF NOT EXISTS idx_accounts_is_default ON accounts(is_default);
		CREATE INDEX IF NOT EXISTS idx_accounts_user_address ON accounts(user_address);
		`,
	},
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
		  id INTEGER PRIMARY KEY,
		  name TEXT NOT NULL UNIQUE,
		  applied_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow("SELECT 1 FROM migrations WHERE name = ?", m.name).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", m.name, err)
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
		if _, err := s.db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
	}
	return nil
}

const accountColumns = `id, alias, user_address, type, source,
	api_wallet_private_key, api_wallet_public_key, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var acc Account
	var isDefault int64
	err := row.Scan(&acc.ID, &acc.Alias, &acc.UserAddress, &acc.Type, &acc.Source,
		&acc.APIWalletPrivateKey, &acc.APIWalletPublicKey, &isDefault, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	acc.IsDefault = isDefault == 1
	return acc, nil
}

// CreateAccount inserts an account. The first account, or one created with
// SetAsDefault, becomes the default and demotes any previous default.
func (s *Store) CreateAccount(input CreateAccountInput) (Account, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count); err != nil {
		return Account{}, err
	}
	shouldBeDefault := count == 0 || input.SetAsDefault

	if shouldBeDefault {
		if _, err := tx.Exec("UPDATE accounts SET is_default = 0 WHERE is_default = 1"); err != nil {
			return Account{}, err
		}
	}

	source := input.Source
	if source == "" {
		source = "cli_import"
	}
	isDefault := 0
	if shouldBeDefault {
		isDefault = 1
	}

	res, err := tx.Exec(`
		INSERT INTO accounts (alias, user_address, type, source, api_wallet_private_key, api_wallet_public_key, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Alias, input.UserAddress, input.Type, source,
		input.APIWalletPrivateKey, input.APIWalletPublicKey, isDefault)
	if err != nil {
		return Account{}, fmt.Errorf("insert account %q: %w", input.Alias, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, err
	}
	acc, err := scanAccount(tx.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if err != nil {
		return Account{}, err
	}
	return acc, tx.Commit()
}

// GetAccountByAlias returns the account with the alias, or nil when absent.
func (s *Store) GetAccountByAlias(alias string) (*Account, error) {
	acc, err := scanAccount(s.db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE alias = ?", alias))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetDefaultAccount returns the default account, or nil when none is set.
func (s *Store) GetDefaultAccount() (*Account, error) {
	acc, err := scanAccount(s.db.QueryRow("SELECT " + accountColumns + " FROM accounts WHERE is_default = 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetAllAccounts lists accounts, default first, then oldest first.
func (s *Store) GetAllAccounts() ([]Account, error) {
	rows, err := s.db.Query("SELECT " + accountColumns + " FROM accounts ORDER BY is_default DESC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// SetDefaultAccount promotes the aliased account to default.
func (s *Store) SetDefaultAccount(alias string) (Account, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback()

	existing, err := scanAccount(tx.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE alias = ?", alias))
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("account with alias %q not found", alias)
	}
	if err != nil {
		return Account{}, err
	}
	if existing.IsDefault {
		return existing, tx.Commit()
	}

	if _, err := tx.Exec("UPDATE accounts SET is_default = 0 WHERE is_default = 1"); err != nil {
		return Account{}, err
	}
	if _, err := tx.Exec(
		"UPDATE accounts SET is_default = 1, updated_at = strftime('%s', 'now') WHERE alias = ?", alias); err != nil {
		return Account{}, err
	}

	updated, err := scanAccount(tx.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE alias = ?", alias))
	if err != nil {
		return Account{}, err
	}
	return updated, tx.Commit()
}

// DeleteAccount removes the aliased account, reporting whether it existed.
// When the default is removed, the oldest remaining account becomes default.
func (s *Store) DeleteAccount(alias string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	existing, err := scanAccount(tx.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE alias = ?", alias))
	if errors.Is(err, sql.ErrNoRows) {
		return false, tx.Commit()
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec("DELETE FROM accounts WHERE alias = ?", alias); err != nil {
		return false, err
	}

	if existing.IsDefault {
		var firstID int64
		err := tx.QueryRow("SELECT id FROM accounts ORDER BY created_at ASC LIMIT 1").Scan(&firstID)
		if err == nil {
			if _, err := tx.Exec("UPDATE accounts SET is_default = 1 WHERE id = ?", firstID); err != nil {
				return false, err
			}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return false, err
		}
	}
	return true, tx.Commit()
}

// IsAliasTaken reports whether an account with the alias exists.
func (s *Store) IsAliasTaken(alias string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM accounts WHERE alias = ?", alias).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AccountCount returns the number of stored accounts.
func (s *Store) AccountCount() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&count)
	return count, err
}

package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type userSeed struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
}

type seedFile struct {
	Users []userSeed `json:"users"`
}

// Populate demo users from a JSON file. Existing rows are replaced so dbtool
// can be re-run after edits.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed users: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed users: parse json: %w", err)
	}

	for i, u := range data.Users {
		if strings.TrimSpace(u.ID) == "" || strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("seed users: item at index %d: id and email are required", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed users: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO users (id, email, name, role, company)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email, name = EXCLUDED.name,
	    role = EXCLUDED.role, company = EXCLUDED.company;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed users: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range data.Users {
		if _, err := stmt.Exec(u.ID, u.Email, u.Name, u.Role, u.Company); err != nil {
			return fmt.Errorf("seed users: insert id=%s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed users: commit tx: %w", err)
	}

	return nil
}

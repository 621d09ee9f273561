package repository

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

type LinkCodePostgres struct {
	db *sql.DB
}

func NewLinkCodePostgres(db *sql.DB) *LinkCodePostgres {
	return &LinkCodePostgres{db: db}
}

// CreateLinkCode issues a fresh 10-minute code for a Discord account,
// invalidating any code previously issued to it.
func (r *LinkCodePostgres) CreateLinkCode(discordID string) (string, error) {
	_, err := r.db.Exec(`DELETE FROM link_codes WHERE discord_id = $1`, discordID)
	if err != nil {
		return "", fmt.Errorf("failed to cleanup old codes: %w", err)
	}

	code, err := generateCode(codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO link_codes (code, discord_id, expires_at)
		VALUES ($1, $2, NOW() + INTERVAL '10 minutes')
	`, code, discordID)
	if err != nil {
		return "", fmt.Errorf("failed to create link code: %w", err)
	}

	return code, nil
}

// RedeemLinkCode consumes a live code and returns the Discord id it was
// issued to, or "" when the code is unknown or expired. The delete and the
// expiry check are a single statement so two callers can never both redeem
// the same code.
func (r *LinkCodePostgres) RedeemLinkCode(code string) (string, error) {
	var discordID string
	err := r.db.QueryRow(`
		DELETE FROM link_codes
		WHERE code = $1 AND expires_at > NOW()
		RETURNING discord_id
	`, code).Scan(&discordID)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to redeem link code: %w", err)
	}

	return discordID, nil
}

func (r *LinkCodePostgres) SweepExpiredCodes() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM link_codes WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired codes: %w", err)
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}

// generateCode draws each character uniformly from the alphabet so no
// letter is favored over another.
func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code), nil
}

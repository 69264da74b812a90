// Package player owns the player roster and campaign membership.
package player

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
)

type Player struct {
	ID    string
	Name  string
	Email string
	Notes string
}

type Service struct {
	db *sql.DB
}

func New(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(p Player) (*Player, error) {
	p.ID = uuid.New().String()
	_, err := s.db.Exec(`INSERT INTO players (id, name, email, notes) VALUES (?, ?, ?, ?)`, p.ID, p.Name, nullIfEmpty(p.Email), nullIfEmpty(p.Notes))
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &p, nil
}

func (s *Service) Get(id string) (*Player, error) {
	var p Player
	var email, notes sql.NullString
	row := s.db.QueryRow(`SELECT id, name, email, notes FROM players WHERE id = ?`, id)
	if err := row.Scan(&p.ID, &p.Name, &email, &notes); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("player", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	p.Email = email.String
	p.Notes = notes.String
	return &p, nil
}

// Join adds a player to a campaign's roster.
func (s *Service) Join(campaignID, playerID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO campaign_players (campaign_id, player_id, active, joined_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(campaign_id, player_id) DO UPDATE SET active = 1
	`, campaignID, playerID, now)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

// SetActive toggles a player's active flag within a campaign without
// removing their membership row (spec.md's roster keeps history of who
// has played, not just who currently is).
func (s *Service) SetActive(campaignID, playerID string, active bool) error {
	v := 0
	if active {
		v = 1
	}
	res, err := s.db.Exec(`UPDATE campaign_players SET active = ? WHERE campaign_id = ? AND player_id = ?`, v, campaignID, playerID)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	if n == 0 {
		return apperr.NewNotFound("campaign_player", campaignID+"/"+playerID)
	}
	return nil
}

// ListByCampaign returns every player ever associated with a campaign.
func (s *Service) ListByCampaign(campaignID string) ([]Player, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.name, p.email, p.notes
		FROM players p JOIN campaign_players cp ON cp.player_id = p.id
		WHERE cp.campaign_id = ? ORDER BY p.name
	`, campaignID)
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer rows.Close()

	var out []Player
	for rows.Next() {
		var p Player
		var email, notes sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &email, &notes); err != nil {
			return nil, apperr.NewDatabase(err, false)
		}
		p.Email = email.String
		p.Notes = notes.String
		out = append(out, p)
	}
	return out, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

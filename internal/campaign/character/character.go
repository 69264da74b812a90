package character

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mimir-dm/mimir-dm-go/internal/catalog/query"
	"github.com/mimir-dm/mimir-dm-go/internal/platform/apperr"
	"github.com/mimir-dm/mimir-dm-go/internal/storage/fsstore"
)

// Character is one characters row.
type Character struct {
	ID             string
	CampaignID     string
	PlayerID       string
	CharacterName  string
	IsNPC          bool
	CurrentLevel   int
	CurrentVersion int
	DirectoryPath  string
	ClassSummary   string
	RaceSummary    string
}

// Version is one append-only character_versions row — a full embedded
// snapshot of the character sheet at that version, never mutated in place.
type Version struct {
	CharacterID    string
	VersionNumber  int
	FilePath       string
	EmbeddedData   map[string]any
	SnapshotReason string
	Level          int
	CreatedAt      string
}

type Service struct {
	db      *sql.DB
	fs      *fsstore.Root
	catalog *query.Service
}

func New(db *sql.DB, fs *fsstore.Root, catalog *query.Service) *Service {
	return &Service{db: db, fs: fs, catalog: catalog}
}

// Create inserts a new character with its first version snapshot.
func (s *Service) Create(c Character, initialData map[string]any) (*Character, error) {
	dir, err := s.fs.CharacterDir(uuid.NewString())
	if err != nil {
		return nil, err
	}
	c.ID = uuid.New().String()
	c.DirectoryPath = dir
	c.CurrentVersion = 1
	if c.CurrentLevel == 0 {
		c.CurrentLevel = 1
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO characters (id, campaign_id, player_id, character_name, is_npc, current_level,
			current_version, directory_path, class_summary, race_summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, nullIfEmpty(c.CampaignID), nullIfEmpty(c.PlayerID), c.CharacterName, boolInt(c.IsNPC),
		c.CurrentLevel, c.CurrentVersion, c.DirectoryPath, c.ClassSummary, c.RaceSummary, now, now)
	if err != nil {
		return nil, apperr.NewDatabase(err, isUniqueViolation(err))
	}

	if err := insertVersion(tx, c.ID, 1, c.CurrentLevel, "initial creation", initialData, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	return &c, nil
}

func insertVersion(tx *sql.Tx, characterID string, versionNumber, level int, reason string, data map[string]any, now string) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return apperr.NewInvalidData("encode character snapshot: " + err.Error())
	}
	_, err = tx.Exec(`
		INSERT INTO character_versions (character_id, version_number, file_path, embedded_data, snapshot_reason, level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, characterID, versionNumber, "", string(dataJSON), reason, level, now)
	if err != nil {
		return apperr.NewDatabase(err, false)
	}
	return nil
}

// Get fetches a character by id.
func (s *Service) Get(id string) (*Character, error) {
	var c Character
	var playerID, campaignID sql.NullString
	var isNPC int
	row := s.db.QueryRow(`
		SELECT id, campaign_id, player_id, character_name, is_npc, current_level, current_version,
			directory_path, class_summary, race_summary
		FROM characters WHERE id = ?
	`, id)
	if err := row.Scan(&c.ID, &campaignID, &playerID, &c.CharacterName, &isNPC, &c.CurrentLevel,
		&c.CurrentVersion, &c.DirectoryPath, &c.ClassSummary, &c.RaceSummary); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("character", id)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	c.CampaignID = campaignID.String
	c.PlayerID = playerID.String
	c.IsNPC = isNPC != 0
	return &c, nil
}

// GetVersion fetches one version snapshot.
func (s *Service) GetVersion(characterID string, versionNumber int) (*Version, error) {
	var v Version
	var dataJSON string
	row := s.db.QueryRow(`
		SELECT character_id, version_number, file_path, embedded_data, snapshot_reason, level, created_at
		FROM character_versions WHERE character_id = ? AND version_number = ?
	`, characterID, versionNumber)
	if err := row.Scan(&v.CharacterID, &v.VersionNumber, &v.FilePath, &dataJSON, &v.SnapshotReason, &v.Level, &v.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NewNotFound("character_version", characterID)
		}
		return nil, apperr.NewDatabase(err, false)
	}
	_ = json.Unmarshal([]byte(dataJSON), &v.EmbeddedData)
	return &v, nil
}

// LevelUp validates the level-up choice against the class's hit die and
// (when multiclassing into a new class) its ability prerequisites, then
// appends a new version snapshot. It never mutates an existing version —
// character_versions is append-only.
func (s *Service) LevelUp(characterID string, opts LevelUpOptions, hitDieValue int, scores AbilityScores, req *MulticlassRequirement, baseData map[string]any) (*Version, error) {
	if err := opts.ValidateHPGain(hitDieValue); err != nil {
		return nil, err
	}
	if err := opts.ValidateAsiOrFeat(); err != nil {
		return nil, err
	}
	if req != nil {
		if err := req.Check(scores); err != nil {
			return nil, err
		}
	}

	c, err := s.Get(characterID)
	if err != nil {
		return nil, err
	}

	hpGain := AverageHPGain(hitDieValue)
	if opts.HPMethod.Roll != nil {
		hpGain = *opts.HPMethod.Roll
	}
	newData := cloneMap(baseData)
	newData["last_hp_gain"] = hpGain
	newData["class_name"] = opts.ClassName
	if opts.SubclassChoice != "" {
		newData["subclass_choice"] = opts.SubclassChoice
	}
	if opts.AsiOrFeat != nil {
		if opts.AsiOrFeat.Feat != "" {
			newData["feat"] = opts.AsiOrFeat.Feat
		} else {
			newData["asi"] = opts.AsiOrFeat.ASI
		}
	}

	newVersion := c.CurrentVersion + 1
	newLevel := c.CurrentLevel + 1
	reason := opts.SnapshotReason
	if reason == "" {
		reason = "level up to " + strconv.Itoa(newLevel)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	defer tx.Rollback()

	if err := insertVersion(tx, characterID, newVersion, newLevel, reason, newData, now); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`UPDATE characters SET current_level = ?, current_version = ?, class_summary = ?, updated_at = ? WHERE id = ?`,
		newLevel, newVersion, opts.ClassName, now, characterID); err != nil {
		return nil, apperr.NewDatabase(err, false)
	}
	if err := tx.Commit(); err != nil {
		return nil, apperr.NewDatabase(err, false)
	}

	return s.GetVersion(characterID, newVersion)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

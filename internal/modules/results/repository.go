// Package results is the caching collaborator for completed runs: it
// stores result records keyed by a hash of scenario, investment, and
// simulation config, and enforces its own expiry policy. Records are
// opaque to the store and never mutated.
package results

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantforge/macrosim/internal/database"
	"github.com/quantforge/macrosim/internal/domain"
	"github.com/quantforge/macrosim/internal/events"
	"github.com/quantforge/macrosim/internal/scheduler"
)

// DefaultTTL is the expiry applied when none is configured
const DefaultTTL = 24 * time.Hour

// Repository persists scenario results in SQLite
type Repository struct {
	db     *database.DB
	ttl    time.Duration
	clock  scheduler.Clock
	events *events.Manager
	log    zerolog.Logger
}

// NewRepository creates a result store. A nil clock falls back to the
// system clock.
func NewRepository(db *database.DB, ttl time.Duration, clock scheduler.Clock, ev *events.Manager, log zerolog.Logger) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = scheduler.SystemClock{}
	}
	return &Repository{
		db:     db,
		ttl:    ttl,
		clock:  clock,
		events: ev,
		log:    log.With().Str("service", "results").Logger(),
	}
}

// Key derives the cache key: a SHA-256 hash over the canonical JSON of
// the scenario, the base investment, and the simulation config.
func Key(econ domain.EconomicScenario, base domain.InvestmentScenario, cfg domain.SimulationConfig) (string, error) {
	payload := struct {
		Scenario   domain.EconomicScenario   `json:"scenario"`
		Investment domain.InvestmentScenario `json:"investment"`
		Config     domain.SimulationConfig   `json:"config"`
	}{econ, base, cfg}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("results: hashing key inputs: %w", err)
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Save stores a result under the key, replacing any previous record
func (r *Repository) Save(key string, result *domain.ScenarioResult) error {
	if result == nil {
		return fmt.Errorf("results: cannot store a nil result")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("results: serializing result: %w", err)
	}

	now := r.clock.Now()
	_, err = r.db.Exec(
		`INSERT OR REPLACE INTO scenario_results (key, scenario_id, payload, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, result.ScenarioID, string(payload), now.Unix(), now.Add(r.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("results: storing result: %w", err)
	}

	if r.events != nil {
		r.events.Emit(events.ResultStored, "results", map[string]interface{}{
			"key":         key,
			"scenario_id": result.ScenarioID,
		})
	}

	return nil
}

// Get returns the stored result for the key. A record past its expiry is
// deleted and reported as a miss.
func (r *Repository) Get(key string) (*domain.ScenarioResult, bool, error) {
	var payload string
	var expiresAt int64

	err := r.db.QueryRow(
		`SELECT payload, expires_at FROM scenario_results WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("results: reading result: %w", err)
	}

	if r.clock.Now().Unix() >= expiresAt {
		if _, err := r.db.Exec(`DELETE FROM scenario_results WHERE key = ?`, key); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("Failed to delete expired result")
		}
		if r.events != nil {
			r.events.Emit(events.ResultExpired, "results", map[string]interface{}{"key": key})
		}
		return nil, false, nil
	}

	var result domain.ScenarioResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, false, fmt.Errorf("results: deserializing result: %w", err)
	}

	return &result, true, nil
}

// PruneExpired deletes every record past its expiry and returns the count
func (r *Repository) PruneExpired() (int64, error) {
	res, err := r.db.Exec(
		`DELETE FROM scenario_results WHERE expires_at <= ?`, r.clock.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("results: pruning expired results: %w", err)
	}

	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		r.log.Info().Int64("pruned", pruned).Msg("Pruned expired results")
		if r.events != nil {
			r.events.Emit(events.ResultExpired, "results", map[string]interface{}{"count": pruned})
		}
	}

	return pruned, nil
}

// Count returns the number of stored records, expired or not
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM scenario_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("results: counting results: %w", err)
	}
	return n, nil
}

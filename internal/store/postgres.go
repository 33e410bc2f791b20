package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateChart(ctx context.Context, chart *preference.Chart) error {
	if chart.ID == "" {
		chart.ID = uuid.New().String()
	}
	objectivesJSON, err := json.Marshal(chart.Root)
	if err != nil {
		return fmt.Errorf("encode objectives: %w", err)
	}
	alternativesJSON, err := json.Marshal(chart.Alternatives)
	if err != nil {
		return fmt.Errorf("encode alternatives: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO charts (chart_id, name, description, creator, objectives, alternatives)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		chart.ID, chart.Name, chart.Description, chart.Creator, objectivesJSON, alternativesJSON,
	)
	return err
}

func (s *PostgresStore) GetChart(ctx context.Context, id string) (*preference.Chart, error) {
	c := &preference.Chart{}
	var objectivesJSON, alternativesJSON []byte
	var description, creator sql.NullString
	err := s.pool.QueryRow(ctx, `
		SELECT chart_id, name, description, creator, objectives, alternatives
		FROM charts WHERE chart_id = $1`, id,
	).Scan(&c.ID, &c.Name, &description, &creator, &objectivesJSON, &alternativesJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Creator = creator.String

	c.Root = &preference.Objective{}
	if err := json.Unmarshal(objectivesJSON, c.Root); err != nil {
		return nil, fmt.Errorf("decode objectives of chart %s: %w", id, err)
	}
	if alternativesJSON != nil {
		if err := json.Unmarshal(alternativesJSON, &c.Alternatives); err != nil {
			return nil, fmt.Errorf("decode alternatives of chart %s: %w", id, err)
		}
	}
	return c, nil
}

func (s *PostgresStore) ListCharts(ctx context.Context, filter ChartFilter) ([]*ChartSummary, error) {
	query := `SELECT chart_id, name, description, creator, created_at, updated_at FROM charts WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Creator != "" {
		n++
		query += fmt.Sprintf(" AND creator = $%d", n)
		args = append(args, filter.Creator)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charts []*ChartSummary
	for rows.Next() {
		c := &ChartSummary{}
		var description, creator sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &creator, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Description = description.String
		c.Creator = creator.String
		charts = append(charts, c)
	}
	return charts, rows.Err()
}

func (s *PostgresStore) UpdateChart(ctx context.Context, chart *preference.Chart) error {
	objectivesJSON, err := json.Marshal(chart.Root)
	if err != nil {
		return fmt.Errorf("encode objectives: %w", err)
	}
	alternativesJSON, err := json.Marshal(chart.Alternatives)
	if err != nil {
		return fmt.Errorf("encode alternatives: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE charts SET name=$2, description=$3, creator=$4, objectives=$5, alternatives=$6, updated_at=now()
		WHERE chart_id=$1`,
		chart.ID, chart.Name, chart.Description, chart.Creator, objectivesJSON, alternativesJSON,
	)
	return err
}

const preferenceColumns = `chart_id, username, weights, score_functions, alternative_order, committed_at, updated_at`

// SavePreferences upserts the user's row and stamps committed_at.
func (s *PostgresStore) SavePreferences(ctx context.Context, p *Preferences) error {
	weightsJSON, err := json.Marshal(p.Weights)
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	scoreFunctionsJSON, err := json.Marshal(p.ScoreFunctions)
	if err != nil {
		return fmt.Errorf("encode score functions: %w", err)
	}
	orderJSON, _ := json.Marshal(p.AlternativeOrder)

	return s.pool.QueryRow(ctx, `
		INSERT INTO user_preferences (chart_id, username, weights, score_functions, alternative_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chart_id, username) DO UPDATE SET
			weights = EXCLUDED.weights,
			score_functions = EXCLUDED.score_functions,
			alternative_order = EXCLUDED.alternative_order,
			committed_at = now(),
			updated_at = now()
		RETURNING committed_at, updated_at`,
		p.ChartID, p.Username, weightsJSON, scoreFunctionsJSON, orderJSON,
	).Scan(&p.CommittedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetPreferences(ctx context.Context, chartID, username string) (*Preferences, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+preferenceColumns+`
		FROM user_preferences WHERE chart_id = $1 AND username = $2`, chartID, username)
	p, err := scanPreferences(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (s *PostgresStore) ListPreferences(ctx context.Context, chartID string) ([]*Preferences, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+preferenceColumns+`
		FROM user_preferences WHERE chart_id = $1
		ORDER BY username ASC`, chartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Preferences
	for rows.Next() {
		p, err := scanPreferences(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPreferences(row pgx.Row) (*Preferences, error) {
	p := &Preferences{}
	var weightsJSON, scoreFunctionsJSON, orderJSON []byte
	if err := row.Scan(&p.ChartID, &p.Username, &weightsJSON, &scoreFunctionsJSON, &orderJSON, &p.CommittedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Weights = preference.NewWeightMap()
	if err := json.Unmarshal(weightsJSON, p.Weights); err != nil {
		return nil, fmt.Errorf("decode weights for %s: %w", p.Username, err)
	}
	p.ScoreFunctions = preference.NewScoreFunctionMap()
	if err := json.Unmarshal(scoreFunctionsJSON, p.ScoreFunctions); err != nil {
		return nil, fmt.Errorf("decode score functions for %s: %w", p.Username, err)
	}
	if orderJSON != nil {
		_ = json.Unmarshal(orderJSON, &p.AlternativeOrder)
	}
	return p, nil
}

func (s *PostgresStore) CreatePreferenceEvent(ctx context.Context, event *PreferenceEvent) error {
	payloadJSON, _ := json.Marshal(event.Payload)
	return s.pool.QueryRow(ctx, `
		INSERT INTO preference_events (chart_id, username, event, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		event.ChartID, event.Username, event.Event, payloadJSON,
	).Scan(&event.ID, &event.CreatedAt)
}

func (s *PostgresStore) GetPreferenceEvents(ctx context.Context, chartID, username string) ([]*PreferenceEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, chart_id, username, event, payload, created_at
		FROM preference_events WHERE chart_id = $1 AND username = $2
		ORDER BY created_at ASC`, chartID, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*PreferenceEvent
	for rows.Next() {
		e := &PreferenceEvent{}
		var payloadJSON []byte
		if err := rows.Scan(&e.ID, &e.ChartID, &e.Username, &e.Event, &payloadJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if payloadJSON != nil {
			_ = json.Unmarshal(payloadJSON, &e.Payload)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

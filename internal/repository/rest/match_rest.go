package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

const (
	matchColumns = "id,home_team,away_team,half_time_home_goals,half_time_away_goals," +
		"full_time_home_goals,full_time_away_goals,league,season,match_time,created_at"
	listOrder = "created_at.desc,id.desc"
)

// matchRow is a row of the hosted matches table as PostgREST returns it. The table
// generates numeric ids, match_time is a time of day and created_at carries the fixture
// timestamp.
type matchRow struct {
	ID                json.RawMessage `json:"id"`
	HomeTeam          string          `json:"home_team"`
	AwayTeam          string          `json:"away_team"`
	HalfTimeHomeGoals *int            `json:"half_time_home_goals"`
	HalfTimeAwayGoals *int            `json:"half_time_away_goals"`
	FullTimeHomeGoals *int            `json:"full_time_home_goals"`
	FullTimeAwayGoals *int            `json:"full_time_away_goals"`
	League            *string         `json:"league"`
	Season            *string         `json:"season"`
	MatchTime         *string         `json:"match_time"`
	CreatedAt         *string         `json:"created_at"`
}

// insertRow is the write shape. id is only sent when it is numeric; otherwise the table
// generates it. A zero date leaves created_at to the column default.
type insertRow struct {
	ID                json.Number `json:"id,omitempty"`
	HomeTeam          string      `json:"home_team"`
	AwayTeam          string      `json:"away_team"`
	HalfTimeHomeGoals *int        `json:"half_time_home_goals"`
	HalfTimeAwayGoals *int        `json:"half_time_away_goals"`
	FullTimeHomeGoals *int        `json:"full_time_home_goals"`
	FullTimeAwayGoals *int        `json:"full_time_away_goals"`
	League            *string     `json:"league"`
	Season            *string     `json:"season"`
	MatchTime         string      `json:"match_time,omitempty"`
	CreatedAt         *time.Time  `json:"created_at,omitempty"`
}

func toRow(r model.RawRow) insertRow {
	out := insertRow{
		HomeTeam:          r.HomeTeam,
		AwayTeam:          r.AwayTeam,
		HalfTimeHomeGoals: r.HalfTimeHomeGoals,
		HalfTimeAwayGoals: r.HalfTimeAwayGoals,
		FullTimeHomeGoals: r.FullTimeHomeGoals,
		FullTimeAwayGoals: r.FullTimeAwayGoals,
		League:            optional(r.League),
		Season:            optional(r.Season),
	}
	if _, err := strconv.ParseInt(r.ID, 10, 64); err == nil {
		out.ID = json.Number(r.ID)
	}
	if !r.Date.IsZero() {
		d := r.Date.UTC()
		out.CreatedAt = &d
		out.MatchTime = d.Format(time.TimeOnly)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// decodeRow reads one element of a response array. A row that cannot be read is still
// returned, carrying a Defect, so the caller reports it instead of failing the whole read.
func decodeRow(data json.RawMessage) model.RawRow {
	var m matchRow
	if err := json.Unmarshal(data, &m); err != nil {
		var head struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.Unmarshal(data, &head)
		id, _ := decodeID(head.ID)
		return model.RawRow{ID: id, Defect: &model.RowDefect{Field: "row", Reason: "cannot decode: " + err.Error()}}
	}
	return m.raw()
}

func (m matchRow) raw() model.RawRow {
	id, err := decodeID(m.ID)
	if err != nil {
		return model.RawRow{Defect: &model.RowDefect{Field: "id", Reason: err.Error()}}
	}
	out := model.RawRow{
		ID:                id,
		HomeTeam:          m.HomeTeam,
		AwayTeam:          m.AwayTeam,
		HalfTimeHomeGoals: m.HalfTimeHomeGoals,
		HalfTimeAwayGoals: m.HalfTimeAwayGoals,
		FullTimeHomeGoals: m.FullTimeHomeGoals,
		FullTimeAwayGoals: m.FullTimeAwayGoals,
	}
	if m.League != nil {
		out.League = *m.League
	}
	if m.Season != nil {
		out.Season = *m.Season
	}

	// created_at is the fixture timestamp; match_time only stands in when it is a full
	// timestamp and created_at is absent.
	switch {
	case m.CreatedAt != nil && *m.CreatedAt != "":
		t, err := parseTimestamp(*m.CreatedAt)
		if err != nil {
			out.Defect = &model.RowDefect{Field: "created_at", Reason: err.Error()}
			return out
		}
		out.Date = t
	case m.MatchTime != nil:
		if t, err := parseTimestamp(*m.MatchTime); err == nil {
			out.Date = t
		}
	}
	return out
}

// decodeID accepts the numeric ids the table generates as well as text ids.
func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("invalid id %s", raw)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid id %s", raw)
	}
	return n.String(), nil
}

// timestampLayouts covers timestamptz and timestamp columns as PostgREST renders them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

type matchRepository struct {
	client   *Client
	table    string
	pageSize int
}

func NewMatchRepository(client *Client, table string, pageSize int) repository.MatchRepository {
	if table == "" {
		table = "matches"
	}
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &matchRepository{client: client, table: table, pageSize: pageSize}
}

// ListRaw walks limit/offset pages until a short page comes back.
func (r *matchRepository) ListRaw(ctx context.Context) ([]model.RawRow, error) {
	out := make([]model.RawRow, 0, r.pageSize)
	for offset := 0; ; offset += r.pageSize {
		q := url.Values{}
		q.Set("select", matchColumns)
		q.Set("order", listOrder)
		q.Set("limit", strconv.Itoa(r.pageSize))
		q.Set("offset", strconv.Itoa(offset))

		var page []json.RawMessage
		if err := r.client.do(ctx, http.MethodGet, r.table, q, nil, nil, &page); err != nil {
			return nil, err
		}
		for _, data := range page {
			row := decodeRow(data)
			if row.Defect != nil {
				r.client.logger.Warn().Str("id", row.ID).Str("field", row.Defect.Field).Str("reason", row.Defect.Reason).Msg("unreadable match row")
			}
			out = append(out, row)
		}
		if len(page) < r.pageSize {
			return out, nil
		}
	}
}

// Create inserts one row and returns it as stored, with the id the table generated.
func (r *matchRepository) Create(ctx context.Context, row model.RawRow) (model.RawRow, error) {
	q := url.Values{}
	q.Set("select", matchColumns)
	q.Set("columns", matchColumns)
	var created []json.RawMessage
	headers := map[string]string{"Prefer": "missing=default,return=representation"}
	if err := r.client.do(ctx, http.MethodPost, r.table, q, headers, []insertRow{toRow(row)}, &created); err != nil {
		return model.RawRow{}, err
	}
	if len(created) == 0 {
		return row, nil
	}
	stored := decodeRow(created[0])
	if stored.Defect != nil {
		return model.RawRow{}, fmt.Errorf("decode created row: %s %s", stored.Defect.Field, stored.Defect.Reason)
	}
	return stored, nil
}

// InsertBatch posts all rows as one JSON array. Rows with a numeric id are deduplicated
// server side on it; the rest get generated ids. The count is taken from the returned
// representation.
func (r *matchRepository) InsertBatch(ctx context.Context, rows []model.RawRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	body := make([]insertRow, 0, len(rows))
	for _, row := range rows {
		body = append(body, toRow(row))
	}
	q := url.Values{}
	q.Set("select", "id")
	q.Set("columns", matchColumns)
	q.Set("on_conflict", "id")
	headers := map[string]string{"Prefer": "resolution=ignore-duplicates,missing=default,return=representation"}
	var created []json.RawMessage
	if err := r.client.do(ctx, http.MethodPost, r.table, q, headers, body, &created); err != nil {
		return 0, err
	}
	return len(created), nil
}

type pinger struct {
	client *Client
	table  string
}

// NewPinger checks readiness with a one-row read of the match table.
func NewPinger(client *Client, table string) repository.Pinger {
	if table == "" {
		table = "matches"
	}
	return &pinger{client: client, table: table}
}

func (p *pinger) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	return p.client.do(ctx, http.MethodGet, p.table, q, nil, nil, nil)
}

var (
	_ repository.MatchRepository = (*matchRepository)(nil)
	_ repository.Pinger          = (*pinger)(nil)
)

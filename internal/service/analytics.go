package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// maxEventProperties caps how many properties one event may carry into the log.
const maxEventProperties = 50

type analyticsService struct {
	log zerolog.Logger
	now func() time.Time
}

// NewAnalyticsService records events as structured log entries; shipping them to an
// analytics backend is left to the log pipeline.
func NewAnalyticsService(logger zerolog.Logger) AnalyticsService {
	l := logger.With().Str("module", "service").Str("component", "analytics").Logger()
	return &analyticsService{log: l, now: time.Now}
}

func (s *analyticsService) Track(_ context.Context, ev model.AnalyticsEvent, meta ClientMeta) error {
	var ferrs []FieldError
	name, ferrs := checkText(ferrs, "name", ev.Name, 1, maxEventNameLen)
	if len(ev.Properties) > maxEventProperties {
		ferrs = append(ferrs, FieldError{Field: "properties", Message: "too many properties"})
	}
	if ev.Timestamp < 0 {
		ferrs = append(ferrs, FieldError{Field: "timestamp", Message: "must be >= 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return err
	}

	ts := ev.Timestamp
	if ts == 0 {
		ts = s.now().UnixMilli()
	}

	entry := s.log.Info().
		Str("event", name).
		Int64("event_ts", ts).
		Str("ip", meta.IP).
		Str("user_agent", meta.UserAgent)
	if meta.RequestID != "" {
		entry = entry.Str("request_id", meta.RequestID)
	}
	if len(ev.Properties) > 0 {
		entry = entry.Interface("properties", ev.Properties)
	}
	entry.Msg("analytics event")
	return nil
}

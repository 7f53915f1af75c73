// Package google holds the thin Calendar and Gmail clients. Every call
// is guarded by a timeout and a circuit breaker; failures degrade to
// fallback values at the boundary instead of propagating upward.
package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"cvintake/internal/config"
	"cvintake/internal/errors"
	"cvintake/internal/types"
)

// conferenceSolution is the conferencing product requested on events.
const conferenceSolution = "hangoutsMeet"

// ClientProvider hands out an authenticated HTTP client, typically the
// OAuth session.
type ClientProvider interface {
	Client(ctx context.Context) (*http.Client, error)
}

// Calendar is a thin client over the Calendar API.
type Calendar struct {
	provider   ClientProvider
	calendarID string
	timezone   string
	timeout    time.Duration
	linkCB     *LinkCircuitBreaker
	busyCB     *BusyCircuitBreaker
	logger     *errors.Logger

	// endpoint overrides the API base URL in tests
	endpoint string
}

// NewCalendar builds a Calendar client from the Google section of the
// configuration.
func NewCalendar(provider ClientProvider, cfg config.GoogleConfig, logger *errors.Logger) *Calendar {
	return &Calendar{
		provider:   provider,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		timeout:    cfg.Calendar.Timeout,
		linkCB:     NewLinkCircuitBreaker("conference-event", &cfg.Calendar.CircuitBreaker, logger),
		busyCB:     NewBusyCircuitBreaker("busy-intervals", &cfg.Calendar.CircuitBreaker, logger),
		logger:     logger,
	}
}

func (c *Calendar) service(ctx context.Context) (*calendar.Service, error) {
	client, err := c.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return calendar.NewService(ctx, opts...)
}

// CreateConferenceEvent inserts an event spanning start to
// start+duration with an attached conferencing request and returns the
// video entry point URI. It returns "" with a nil error when the
// provider accepted the event but attached no video entry point; the
// caller decides on a fallback link.
func (c *Calendar) CreateConferenceEvent(ctx context.Context, title string, start time.Time, durationMinutes int) (string, error) {
	return c.linkCB.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		svc, err := c.service(callCtx)
		if err != nil {
			return "", errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				"failed to build calendar service", err)
		}

		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		event := &calendar.Event{
			Summary: title,
			Start: &calendar.EventDateTime{
				DateTime: start.Format(time.RFC3339),
				TimeZone: c.timezone,
			},
			End: &calendar.EventDateTime{
				DateTime: end.Format(time.RFC3339),
				TimeZone: c.timezone,
			},
			ConferenceData: &calendar.ConferenceData{
				CreateRequest: &calendar.CreateConferenceRequest{
					RequestId: uuid.NewString(),
					ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
						Type: conferenceSolution,
					},
				},
			},
		}

		created, err := svc.Events.Insert(c.calendarID, event).
			ConferenceDataVersion(1).
			Context(callCtx).
			Do()
		if err != nil {
			return "", errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				"calendar event creation failed", err)
		}

		return videoEntryPoint(created), nil
	})
}

// videoEntryPoint extracts the first "video" entry point URI, or "".
func videoEntryPoint(event *calendar.Event) string {
	if event == nil || event.ConferenceData == nil {
		return ""
	}
	for _, ep := range event.ConferenceData.EntryPoints {
		if ep.EntryPointType == "video" {
			return ep.Uri
		}
	}
	return ""
}

// BusyIntervals lists the occupied intervals on date (YYYY-MM-DD),
// querying events between 00:00 and 23:59:59 UTC ordered by start time.
// All-day events carry no dateTime and are skipped.
func (c *Calendar) BusyIntervals(ctx context.Context, date string) ([]types.BusyInterval, error) {
	return c.busyCB.Execute(func() ([]types.BusyInterval, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		svc, err := c.service(callCtx)
		if err != nil {
			return nil, errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				"failed to build calendar service", err)
		}

		events, err := svc.Events.List(c.calendarID).
			TimeMin(date + "T00:00:00Z").
			TimeMax(date + "T23:59:59Z").
			SingleEvents(true).
			OrderBy("startTime").
			Context(callCtx).
			Do()
		if err != nil {
			return nil, errors.NewRemoteError(errors.ErrCodeRemoteUnavailable,
				fmt.Sprintf("calendar event listing failed for %s", date), err)
		}

		intervals := make([]types.BusyInterval, 0, len(events.Items))
		for _, item := range events.Items {
			if item.Start == nil || item.End == nil ||
				item.Start.DateTime == "" || item.End.DateTime == "" {
				continue
			}
			start, err := time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, item.End.DateTime)
			if err != nil {
				continue
			}
			intervals = append(intervals, types.BusyInterval{Start: start, End: end})
		}
		return intervals, nil
	})
}

// Stats exposes the circuit breaker state for the stats endpoint.
func (c *Calendar) Stats() map[string]any {
	return map[string]any{
		"conference_event": c.linkCB.GetStats(),
		"busy_intervals":   c.busyCB.GetStats(),
	}
}

// Healthy reports whether both calendar breakers are closed.
func (c *Calendar) Healthy() bool {
	return c.linkCB.IsHealthy() && c.busyCB.IsHealthy()
}

// PlaceholderLink generates a local stand-in conferencing link for when
// the provider is unreachable or returns no video entry point.
func PlaceholderLink() string {
	return fmt.Sprintf("https://meet.google.com/%s", uuid.NewString()[:8])
}

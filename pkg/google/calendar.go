package google

import (
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/importer"
)

// FeedClient reads events from one Google Calendar. It is the event feed
// collaborator of the importer: fetch only, never write.
type FeedClient struct {
	srv        *calendar.Service
	calendarID string
}

// TodayEvents fetches today's events (midnight to midnight, local time) in
// start-time order and converts them to feed events.
func (c *FeedClient) TodayEvents(now time.Time) ([]importer.Event, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)
	return c.Events(start, end)
}

// Events fetches events within [timeMin, timeMax) in start-time order.
func (c *FeedClient) Events(timeMin, timeMax time.Time) ([]importer.Event, error) {
	items, err := c.srv.Events.List(c.calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	events := make([]importer.Event, 0, len(items.Items))
	for _, item := range items.Items {
		start, ok := eventTime(item.Start)
		if !ok {
			log.Printf("calendar: event %s has no usable start time, skipping", item.Id)
			continue
		}
		end, ok := eventTime(item.End)
		if !ok {
			log.Printf("calendar: event %s has no usable end time, skipping", item.Id)
			continue
		}
		events = append(events, importer.Event{
			ID:    item.Id,
			Title: item.Summary,
			Start: start,
			End:   end,
		})
	}
	return events, nil
}

// eventTime resolves a calendar event boundary: timed events carry
// DateTime, all-day events carry Date.
func eventTime(edt *calendar.EventDateTime) (time.Time, bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

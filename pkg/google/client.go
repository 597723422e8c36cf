package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/auth"
)

// NewClient creates a feed client for the named calendar, or for the
// primary calendar when name is empty.
func NewClient(ctx context.Context, calendarName string) (*FeedClient, error) {
	client, err := auth.GetClient(ctx, auth.Scopes())
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendarID := "primary"
	if calendarName != "" {
		calendarList, err := srv.CalendarList.List().Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve calendar list: %w", err)
		}
		calendarID = ""
		for _, item := range calendarList.Items {
			if item.Summary == calendarName {
				calendarID = item.Id
				break
			}
		}
		if calendarID == "" {
			return nil, fmt.Errorf("calendar '%s' not found", calendarName)
		}
	}

	return &FeedClient{srv: srv, calendarID: calendarID}, nil
}

package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"actsync/internal"
)

type Client struct {
	oauthCfg *oauth2.Config

	Verbose bool
}

// NewClient builds a client from an OAuth credentials JSON. Extra
// scopes can be requested so one login also covers the sheets
// destination.
func NewClient(credJSON []byte, scopes ...string) (*Client, error) {
	if len(scopes) == 0 {
		scopes = []string{calendar.CalendarEventsReadonlyScope}
	}
	oauthCfg, err := google.ConfigFromJSON(credJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}

	return &Client{
		oauthCfg: oauthCfg,
	}, nil
}

const defaultSleep = 5 * time.Second

// FetchEvents lists the calendar's events between from and to, with
// recurrences expanded and cancelled instances dropped.
func (c Client) FetchEvents(ctx context.Context, cal *internal.Calendar, from, to internal.Date) ([]*internal.RawEvent, error) {
	svc, err := c.calendarSvc(ctx, cal)
	if err != nil {
		return nil, err
	}

	call := svc.Events.
		List(cal.ProviderID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true)
	if !from.IsZero() {
		call = call.TimeMin(from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		call = call.TimeMax(to.Format(time.RFC3339))
	}

	var (
		raws          []*internal.RawEvent
		nextPageToken string
	)
	for {
		events, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) {
				time.Sleep(defaultSleep)
				continue
			}
			c.logf(cal, "unable to get list of events: %v", err)
			return nil, err
		}

		for _, item := range events.Items {
			if item.Status == "cancelled" {
				continue
			}
			raws = append(raws, newRawEvent(item))
		}

		nextPageToken = events.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	c.logf(cal, "fetched %d event(s)", len(raws))
	return raws, nil
}

func newRawEvent(event *calendar.Event) *internal.RawEvent {
	raw := &internal.RawEvent{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
	}
	if event.Start != nil {
		raw.Start = internal.EventDateTime{
			DateTime: event.Start.DateTime,
			Date:     event.Start.Date,
		}
	}
	if event.End != nil {
		raw.End = internal.EventDateTime{
			DateTime: event.End.DateTime,
			Date:     event.End.Date,
		}
	}
	return raw
}

// Login runs the local-callback OAuth flow and returns the token.
func (c Client) Login(ctx context.Context, prompt func(authURL string)) (*oauth2.Token, error) {
	state := fmt.Sprintf("actsync-%d", time.Now().UTC().Nanosecond())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	prompt(authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc("/actsync", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}

	if authErr != nil {
		return nil, authErr
	}

	return token, nil
}

func (c Client) calendarSvc(ctx context.Context, cal *internal.Calendar) (*calendar.Service, error) {
	var tok *oauth2.Token
	err := json.Unmarshal([]byte(cal.Account.Auth), &tok)
	if err != nil {
		return nil, err
	}
	httpClient := c.oauthCfg.Client(ctx, tok)
	return calendar.NewService(ctx, option.WithHTTPClient(httpClient))
}

func (c Client) logf(cal *internal.Calendar, format string, a ...any) {
	if c.Verbose {
		internal.Logf(os.Stdout, "google:", cal.String(), format, a...)
	}
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case reason:
			return true
		}
	}
	return false
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/habitdeck/habitdeck/internal/logger"
	"github.com/habitdeck/habitdeck/internal/models"
	"github.com/habitdeck/habitdeck/internal/timeline"
)

// HTTPClient implements Service against the habit service's REST API.
// Days travel as YYYY-MM-DD strings, score and id responses are plain
// text, everything else is JSON.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ Service = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at baseURL. The token may
// be empty for servers running in dev mode.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method != http.MethodGet {
		// lets the server dedupe a retried write
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	res, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	res, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return statusError(op, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed response: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) postText(ctx context.Context, op, path string, body any) (string, error) {
	res, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", statusError(op, res.StatusCode)
	}
	text, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s: reading response: %w", op, err)
	}
	return strings.TrimSpace(string(text)), nil
}

func (c *HTTPClient) MyHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.getJSON(ctx, "list habits", "/my/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *HTTPClient) SharedHabits(ctx context.Context) ([]models.Habit, error) {
	var habits []models.Habit
	if err := c.getJSON(ctx, "list shared habits", "/shared/habits", nil, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func (c *HTTPClient) Activities(ctx context.Context, habitID string, q ActivityQuery) (ActivityPage, error) {
	query := url.Values{}
	if q.After != "" {
		query.Set("after", q.After)
	}
	if q.Before != "" {
		query.Set("before", q.Before)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page ActivityPage
	err := c.getJSON(ctx, "list activities", "/habit/"+url.PathEscape(habitID)+"/activities", query, &page)
	if err != nil {
		return ActivityPage{}, err
	}

	// The merge and the weekly count silently desynchronize on unsorted
	// or duplicate-day input, so a response breaking the contract is
	// rejected outright.
	if err := timeline.CheckAscending(page.Activities); err != nil {
		return ActivityPage{}, fmt.Errorf("list activities: %w", err)
	}
	for _, a := range page.Activities {
		if !a.Status.Valid() {
			return ActivityPage{}, fmt.Errorf("list activities: %w: status %q", models.ErrUnorderedActivities, a.Status)
		}
	}
	return page, nil
}

func (c *HTTPClient) Score(ctx context.Context, habitID string) (int, error) {
	res, err := c.do(ctx, http.MethodGet, "/habit/"+url.PathEscape(habitID)+"/score", nil, nil)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, statusError("fetch score", res.StatusCode)
	}
	text, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, fmt.Errorf("fetch score: reading response: %w", err)
	}
	score, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		return 0, fmt.Errorf("fetch score: malformed response %q", text)
	}
	return score, nil
}

func (c *HTTPClient) LogActivity(ctx context.Context, habitID, day string, status models.Status) (string, error) {
	if err := models.ValidateDay(day); err != nil {
		return "", err
	}
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", status)
	}

	body := struct {
		Logged string
		Status models.Status
	}{Logged: day, Status: status}
	return c.postText(ctx, "log activity", "/habit/"+url.PathEscape(habitID)+"/activities", body)
}

func (c *HTTPClient) CreateHabit(ctx context.Context, name string, frequency int) (string, error) {
	if err := models.ValidateFrequency(frequency); err != nil {
		return "", err
	}

	body := struct {
		Name      string
		Frequency int
	}{Name: name, Frequency: frequency}
	return c.postText(ctx, "create habit", "/my/habits", body)
}

func (c *HTTPClient) UpdateHabit(ctx context.Context, habitID, name string, frequency int) error {
	if err := models.ValidateFrequency(frequency); err != nil {
		return err
	}

	body := struct {
		Name      string
		Frequency int
	}{Name: name, Frequency: frequency}
	_, err := c.postText(ctx, "update habit", "/habit/"+url.PathEscape(habitID), body)
	return err
}

func (c *HTTPClient) ArchiveHabit(ctx context.Context, habitID string) error {
	return c.deleteOK(ctx, "archive habit", "/habit/"+url.PathEscape(habitID))
}

func (c *HTTPClient) UnarchiveHabit(ctx context.Context, habitID string) error {
	_, err := c.postText(ctx, "unarchive habit", "/habit/"+url.PathEscape(habitID)+"/unarchive", nil)
	return err
}

func (c *HTTPClient) ShareHabit(ctx context.Context, habitID, userID string) error {
	_, err := c.postText(ctx, "share habit", "/user/"+url.PathEscape(userID)+"/habit/"+url.PathEscape(habitID), nil)
	return err
}

func (c *HTTPClient) UnshareHabit(ctx context.Context, habitID, userID string) error {
	return c.deleteOK(ctx, "unshare habit", "/user/"+url.PathEscape(userID)+"/habit/"+url.PathEscape(habitID))
}

func (c *HTTPClient) deleteOK(ctx context.Context, op, path string) error {
	res, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return statusError(op, res.StatusCode)
	}
}

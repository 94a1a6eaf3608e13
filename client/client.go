// Package client is a typed Go client for the slotbook HTTP API together with the application
// state it drives.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"slotbook/models"
)

// Client calls the API rooted at BaseURL. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL, for example "https://example.com/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send executes req and returns the response when its status is 2xx.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && json.Unmarshal(raw, &body) == nil {
		apiErr.Message, apiErr.Details = body.Message, body.Details
	}
	return nil, apiErr
}

// do sends a JSON request and decodes the JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &ValidationError{Msg: fmt.Sprintf("%s: cannot encode request: %v", op, err)}
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// Blob is a downloaded image.
type Blob struct {
	ContentType string
	Data        []byte
}

func (c *Client) blob(ctx context.Context, op, path string) (*Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	resp, err := c.send(op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return &Blob{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *Client) upload(ctx context.Context, op, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return &ValidationError{Field: field, Msg: err.Error()}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &ValidationError{Field: field, Msg: err.Error()}
	}
	if err := mw.Close(); err != nil {
		return &ValidationError{Field: field, Msg: err.Error()}
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func escape(s string) string { return url.PathEscape(s) }

// Accounts.

func (c *Client) SendCode(ctx context.Context, email string) error {
	return c.do(ctx, "send code", http.MethodPost, "/send-code", nil, models.SendCodeRequest{Email: email}, nil)
}

// Register creates an account and returns its id.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var out models.CreatedResponse
	if err := c.do(ctx, "register", http.MethodPost, "/register", nil, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Login returns a bearer token. It does not store the token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out models.TokenResponse
	err := c.do(ctx, "login", http.MethodPost, "/login", nil, models.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &DecodeError{Op: "login", Err: errors.New("empty token")}
	}
	return out.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/logout", nil, nil, nil)
}

func (c *Client) Restore(ctx context.Context, req models.RestoreRequest) error {
	return c.do(ctx, "restore", http.MethodPost, "/restore", nil, req, nil)
}

// Directory.

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "get user", http.MethodGet, "/users/"+escape(id), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetMaster(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "get master", http.MethodGet, "/masters/"+escape(username), nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListMasters(ctx context.Context, filter models.MasterFilter) ([]models.User, error) {
	q := url.Values{}
	if filter.Specialization != "" {
		q.Set("specialization", filter.Specialization)
	}
	if filter.MinRating > 0 {
		q.Set("min_rating", strconv.FormatFloat(filter.MinRating, 'f', -1, 64))
	}
	var out []models.User
	if err := c.do(ctx, "list masters", http.MethodGet, "/masters", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Search(ctx context.Context, key string) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, "search", http.MethodGet, "/search", url.Values{"key": {key}}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UserUpdateRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, "update profile", http.MethodPut, "/users", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) SetPushToken(ctx context.Context, token string) error {
	return c.do(ctx, "push token", http.MethodPut, "/users/push-token", nil, models.PushTokenRequest{Token: token}, nil)
}

// Media.

func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) error {
	return c.upload(ctx, "upload avatar", "/users/avatar", "avatar", filename, r, nil)
}

func (c *Client) Avatar(ctx context.Context, userID string) (*Blob, error) {
	return c.blob(ctx, "avatar", "/users/"+escape(userID)+"/avatar")
}

// UploadWork adds a portfolio image and returns its id.
func (c *Client) UploadWork(ctx context.Context, filename string, r io.Reader) (string, error) {
	var out models.CreatedResponse
	if err := c.upload(ctx, "upload work", "/users/works", "work", filename, r, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) ListWorks(ctx context.Context, userID string) ([]string, error) {
	var out []string
	if err := c.do(ctx, "list works", http.MethodGet, "/users/"+escape(userID)+"/works", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Work(ctx context.Context, userID, workID string) (*Blob, error) {
	return c.blob(ctx, "work", "/users/"+escape(userID)+"/works/"+escape(workID))
}

func (c *Client) DeleteWork(ctx context.Context, workID string) error {
	return c.do(ctx, "delete work", http.MethodDelete, "/masters/works/"+escape(workID), nil, nil, nil)
}

// Appointments.

// CreateAppointment books "YYYY-MM-DD HH:MM" with a master and returns the appointment id.
func (c *Client) CreateAppointment(ctx context.Context, masterID, at string) (string, error) {
	var out models.CreateAppointmentResponse
	req := models.CreateAppointmentRequest{MasterID: masterID, Time: at}
	if err := c.do(ctx, "book", http.MethodPost, "/appointments", nil, req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) ListAppointments(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	q := url.Values{}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	var out []models.Appointment
	if err := c.do(ctx, "list appointments", http.MethodGet, "/appointments", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, "cancel", http.MethodDelete, "/appointments/"+escape(id), nil, nil, nil)
}

// Schedule.

func (c *Client) Schedule(ctx context.Context, masterID, date string) (*models.DaySchedule, error) {
	var out models.DaySchedule
	q := url.Values{"date": {date}}
	if err := c.do(ctx, "schedule", http.MethodGet, "/schedule/"+escape(masterID), q, nil, &out); err != nil {
		return nil, err
	}
	if out.Slots == nil {
		out.Slots = []string{}
	}
	if out.Booked == nil {
		out.Booked = []string{}
	}
	return &out, nil
}

func (c *Client) SetDayOff(ctx context.Context, date string, off bool) error {
	return c.do(ctx, "day off", http.MethodPut, "/schedule/dayoff", nil, models.SetDayOffRequest{Date: date, IsDayOff: off}, nil)
}

type slotsBody struct {
	Slots []string `json:"slots"`
}

// SetWeekdaySlots replaces the recurring slots of a weekday and returns the stored set.
func (c *Client) SetWeekdaySlots(ctx context.Context, weekday string, slots []string) ([]string, error) {
	var out slotsBody
	req := models.SetWeekdaySlotsRequest{DayOfWeek: weekday, Slots: nonNil(slots)}
	if err := c.do(ctx, "weekday slots", http.MethodPut, "/schedule/hours/weekday", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// SetDateSlots sets the override of one date. An empty list means no slots that day.
func (c *Client) SetDateSlots(ctx context.Context, date string, slots []string) ([]string, error) {
	var out slotsBody
	req := models.SetDateSlotsRequest{Date: date, Slots: nonNil(slots)}
	if err := c.do(ctx, "date slots", http.MethodPut, "/schedule/hours/date", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

func (c *Client) DeleteDateSlots(ctx context.Context, date string) error {
	return c.do(ctx, "delete date slots", http.MethodDelete, "/schedule/hours/date", url.Values{"date": {date}}, nil, nil)
}

// Reviews.

func (c *Client) MasterReviews(ctx context.Context, masterID string) ([]models.Review, error) {
	var out []models.Review
	if err := c.do(ctx, "reviews", http.MethodGet, "/reviews/master/"+escape(masterID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	var out models.Review
	if err := c.do(ctx, "create review", http.MethodPost, "/reviews/", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReview(ctx context.Context, id string, req models.UpdateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ValidationError{Field: "rating", Msg: "must be between 1 and 5"}
	}
	var out models.Review
	if err := c.do(ctx, "update review", http.MethodPut, "/reviews/"+escape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, "delete review", http.MethodDelete, "/reviews/"+escape(id), nil, nil, nil)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Package client is the HTTP implementation of gallery.Gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"pg_wallpaper/internal/domain/models"
	"pg_wallpaper/internal/gallery"
	"pg_wallpaper/internal/lib/logger/sl"
	"pg_wallpaper/internal/transport/http/dto"
	"pg_wallpaper/internal/transport/http/dto/request"
	"pg_wallpaper/internal/transport/http/dto/response"
)

const (
	DefaultTimeout = 15 * time.Second
	maxImageSize   = 50 << 20
	apiPrefix      = "/api/v1"
)

var _ gallery.Gateway = (*Client)(nil)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Details)
	}
	return fmt.Sprintf("api error %d %s", e.Status, e.Code)
}

// Is makes a 401 match gallery.ErrUnauthenticated.
func (e *APIError) Is(target error) bool {
	return target == gallery.ErrUnauthenticated && e.Status == http.StatusUnauthorized
}

type Client struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
	tokens  gallery.TokenStore

	refreshMu sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

func New(log *slog.Logger, baseURL string, tokens gallery.TokenStore, opts ...Option) *Client {
	c := &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListWallpapers(ctx context.Context, q models.WallpaperQuery) ([]models.Wallpaper, error) {
	const op = "client.ListWallpapers"

	params := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Sort != "" {
		params.Set("sort", string(q.Sort))
	}
	params.Set("page", strconv.Itoa(q.Page))

	var list []models.Wallpaper
	if err := c.do(ctx, http.MethodGet, "/wallpapers?"+params.Encode(), nil, &list, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (c *Client) TopWallpapers(ctx context.Context, limit int) ([]models.Wallpaper, error) {
	const op = "client.TopWallpapers"

	var list []models.Wallpaper
	if err := c.do(ctx, http.MethodGet, "/wallpapers/top?limit="+strconv.Itoa(limit), nil, &list, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Wallpaper fetches one wallpaper by id.
func (c *Client) Wallpaper(ctx context.Context, id int64) (models.Wallpaper, error) {
	const op = "client.Wallpaper"

	var w models.Wallpaper
	if err := c.do(ctx, http.MethodGet, "/wallpapers/"+strconv.FormatInt(id, 10), nil, &w, false); err != nil {
		return models.Wallpaper{}, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func (c *Client) AddFavorite(ctx context.Context, wallpaperID int64) error {
	const op = "client.AddFavorite"

	if err := c.do(ctx, http.MethodPut, favoritePath(wallpaperID), nil, nil, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) RemoveFavorite(ctx context.Context, wallpaperID int64) error {
	const op = "client.RemoveFavorite"

	if err := c.do(ctx, http.MethodDelete, favoritePath(wallpaperID), nil, nil, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) ListFavoriteIDs(ctx context.Context) ([]int64, error) {
	const op = "client.ListFavoriteIDs"

	var resp dto.FavoriteIDsResponse
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return resp.IDs, nil
}

func (c *Client) ListComments(ctx context.Context, wallpaperID int64) ([]models.Comment, error) {
	const op = "client.ListComments"

	var list []models.Comment
	if err := c.do(ctx, http.MethodGet, commentsPath(wallpaperID), nil, &list, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (c *Client) PostComment(ctx context.Context, wallpaperID int64, content string) (models.Comment, error) {
	const op = "client.PostComment"

	var out models.Comment
	body := request.CommentRequest{Content: content}
	if err := c.do(ctx, http.MethodPost, commentsPath(wallpaperID), body, &out, true); err != nil {
		return models.Comment{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (c *Client) IncrementDownload(ctx context.Context, wallpaperID int64) error {
	const op = "client.IncrementDownload"

	body := request.IncrementDownloadRequest{WallpaperID: wallpaperID}
	if err := c.do(ctx, http.MethodPost, "/functions/increment-download", body, nil, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FetchImage downloads raw image bytes. Relative URLs are resolved against
// the API host.
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "client.FetchImage"

	target := rawURL
	if strings.HasPrefix(rawURL, "/") {
		target = c.baseURL + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, &APIError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("%s: image larger than %d bytes", op, maxImageSize)
	}

	return data, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (models.TokenPair, error) {
	const op = "client.SignIn"

	var resp dto.AuthResponse
	body := request.SignInRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", body, &resp, false); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	return pairFrom(resp), nil
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (models.TokenPair, error) {
	const op = "client.SignUp"

	var resp dto.AuthResponse
	body := request.SignUpRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &resp, false); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}
	return pairFrom(resp), nil
}

func (c *Client) SignOut(ctx context.Context) error {
	const op = "client.SignOut"

	if err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) CurrentUser(ctx context.Context) (models.Account, error) {
	const op = "client.CurrentUser"

	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &account, true); err != nil {
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}

// do sends one API request. Authenticated requests that come back 401 are
// retried once after refreshing the token pair.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	err := c.send(ctx, method, path, body, out, authed)
	if !authed || !errors.Is(err, gallery.ErrUnauthenticated) {
		return err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		c.log.Debug("token refresh failed", slog.String("path", path), sl.Err(rerr))
		return err
	}

	return c.send(ctx, method, path, body, out, authed)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if pair, err := c.tokens.Load(); err == nil {
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env response.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
			apiErr.Code = env.Error
			apiErr.Details = env.Details
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Status != response.StatusSuccess {
		return fmt.Errorf("unexpected status %q", env.Status)
	}
	if len(env.Data) == 0 {
		return nil
	}

	return json.Unmarshal(env.Data, out)
}

func (c *Client) refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	pair, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if pair.RefreshToken == "" {
		return gallery.ErrNoToken
	}

	var resp dto.AuthResponse
	body := request.RefreshRequest{RefreshToken: pair.RefreshToken}
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", body, &resp, false); err != nil {
		return err
	}

	return c.tokens.Save(pairFrom(resp))
}

func pairFrom(resp dto.AuthResponse) models.TokenPair {
	return models.TokenPair{
		UserID:       resp.UserID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
}

func favoritePath(id int64) string {
	return "/favorites/" + strconv.FormatInt(id, 10)
}

func commentsPath(id int64) string {
	return "/wallpapers/" + strconv.FormatInt(id, 10) + "/comments"
}

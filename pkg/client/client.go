// Package client 目录服务的 Go 客户端：令牌放在显式传入的 Session 里
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxResponseBody = 10 << 20

type Client struct {
	base string
	sess Session
	hc   *http.Client
}

// New hc 为 nil 时使用 15s 超时的默认客户端
func New(baseURL string, s Session, hc *http.Client) *Client {
	if s == nil {
		s = NewMemorySession()
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), sess: s, hc: hc}
}

func (c *Client) Session() Session { return c.sess }

type call struct {
	method   string
	path     string
	query    url.Values
	in       any
	out      any
	fallback string
	authed   bool
}

func (c *Client) do(ctx context.Context, r call) error {
	u := c.base + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	var body io.Reader
	if r.in != nil {
		data, err := json.Marshal(r.in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var sent string
	if r.authed {
		if sent = c.sess.Token(); sent != "" {
			req.Header.Set("Authorization", "Bearer "+sent)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// 带令牌的请求被拒：令牌失效，退出登录
		if res.StatusCode == http.StatusUnauthorized && sent != "" {
			_ = c.sess.Clear()
		}
		return &APIError{Status: res.StatusCode, Message: FormatError(parseBody(raw), r.fallback, res.StatusCode)}
	}
	// 空体或非 JSON 视为无 body，out 保持零值
	if r.out == nil || !json.Valid(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, r.out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBody 空体或非 JSON 视为无 body
func parseBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/signup", "Signup failed",
		map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", "Login failed",
		map[string]string{"email": email, "password": password})
}

// authenticate 返回前先存好令牌，后续请求一定带上它
func (c *Client) authenticate(ctx context.Context, path, fallback string, in any) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: path, in: in, out: &out, fallback: fallback}); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("response carried no token")
	}
	if err := c.sess.Set(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &out, fallback: "Failed to fetch user", authed: true}); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout() error { return c.sess.Clear() }

func (c *Client) ListDevelopers(ctx context.Context, p ListParams) (*DeveloperPage, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", p.Search)
	set("role", p.Role)
	set("sort", p.Sort)
	set("order", p.Order)
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var out DeveloperPage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/developers", query: q, out: &out, fallback: "Failed to fetch developers", authed: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetDeveloper(ctx context.Context, id string) (*Developer, error) {
	var out struct {
		Data Developer `json:"data"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/developers/" + url.PathEscape(id), out: &out, fallback: "Failed to fetch developer", authed: true}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) CreateDeveloper(ctx context.Context, p DeveloperPayload) (*Developer, error) {
	var out Developer
	if err := c.do(ctx, call{method: http.MethodPost, path: "/developers", in: p, out: &out, fallback: "Failed to create developer", authed: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDeveloper(ctx context.Context, id string, p DeveloperPayload) (*Developer, error) {
	var out Developer
	if err := c.do(ctx, call{method: http.MethodPut, path: "/developers/" + url.PathEscape(id), in: p, out: &out, fallback: "Failed to update developer", authed: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDeveloper(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/developers/" + url.PathEscape(id), fallback: "Failed to delete developer", authed: true})
}

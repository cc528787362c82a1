package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lsx-portal/internal/metrics"
)

type Page struct {
	ID             string     `json:"id"`
	CreatedTime    time.Time  `json:"created_time"`
	LastEditedTime time.Time  `json:"last_edited_time"`
	Archived       bool       `json:"archived"`
	URL            string     `json:"url"`
	Properties     Properties `json:"properties"`
}

type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

type QueryRequest struct {
	Filter      Filter `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ClientConfig struct {
	BaseURL string
	Token   string
	Version string
	// Timeout of zero leaves requests bounded only by the transport.
	Timeout time.Duration
}

// Client talks to the document store REST API.
type Client struct {
	cfg    ClientConfig
	logger *zap.Logger
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Version == "" {
		cfg.Version = "2022-06-28"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger}
}

// QueryDatabase fetches one page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q QueryRequest) (*QueryResponse, error) {
	var out QueryResponse
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.cfg.BaseURL, databaseID)
	if err := c.do(ctx, "query", fiber.MethodPost, url, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var out Page
	url := fmt.Sprintf("%s/v1/pages/%s", c.cfg.BaseURL, pageID)
	if err := c.do(ctx, "get_page", fiber.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePage patches the given properties and returns the updated page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props map[string]any) (*Page, error) {
	var out Page
	url := fmt.Sprintf("%s/v1/pages/%s", c.cfg.BaseURL, pageID)
	body := map[string]any{"properties": props}
	if err := c.do(ctx, "update_page", fiber.MethodPatch, url, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props map[string]any) (*Page, error) {
	var out Page
	url := c.cfg.BaseURL + "/v1/pages"
	body := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": props,
	}
	if err := c.do(ctx, "create_page", fiber.MethodPost, url, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, op, method, url string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return &TransientError{Op: op, Err: err}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	a.Set(fiber.HeaderAuthorization, "Bearer "+c.cfg.Token)
	a.Set("Notion-Version", c.cfg.Version)
	if body != nil {
		a.JSON(body)
	}

	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout == 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		metrics.StoreRequests.WithLabelValues(op, "error").Inc()
		return &TransientError{Op: op, Err: err}
	}

	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		metrics.StoreRequests.WithLabelValues(op, "error").Inc()
		return &TransientError{Op: op, Err: errors.Join(errs...)}
	}

	if code == http.StatusNotFound {
		metrics.StoreRequests.WithLabelValues(op, "not_found").Inc()
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if code < 200 || code >= 300 {
		metrics.StoreRequests.WithLabelValues(op, "error").Inc()
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		c.logger.Warn("document store call failed",
			zap.String("op", op),
			zap.Int("status", code),
			zap.String("code", apiErr.Code))
		return &TransientError{Op: op, Status: code, Code: apiErr.Code, Message: apiErr.Message}
	}

	metrics.StoreRequests.WithLabelValues(op, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransientError{Op: op, Status: code, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

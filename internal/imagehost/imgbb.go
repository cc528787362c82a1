package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lsx-portal/internal/metrics"
)

var (
	ErrUnsupportedType = errors.New("image must be a jpg or png")
	ErrEmptyImage      = errors.New("image is empty")
	ErrUploadFailed    = errors.New("image upload failed")
)

// MaxImageBytes matches the image host's free-tier limit.
const MaxImageBytes = 32 << 20

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	cfg    Config
	logger *zap.Logger
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Upload sends the image bytes and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	ext, err := Validate(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("member-%s%s", uuid.NewString(), ext)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("key", c.cfg.APIKey)

	a := fiber.Post(c.cfg.URL)
	a.FileData(&fiber.FormFile{Fieldname: "image", Name: name, Content: data})
	a.MultipartForm(args)
	a.Timeout(c.cfg.Timeout)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		metrics.ImageUploads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		metrics.ImageUploads.WithLabelValues("error").Inc()
		c.logger.Warn("image upload transport error", zap.Error(errors.Join(errs...)))
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, errors.Join(errs...))
	}

	var resp uploadResponse
	_ = json.Unmarshal(body, &resp)
	if code != http.StatusOK || !resp.Success || resp.Data.URL == "" {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		c.logger.Warn("image upload rejected",
			zap.Int("status", code),
			zap.String("message", resp.Error.Message))
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, code)
	}

	metrics.ImageUploads.WithLabelValues("ok").Inc()
	return resp.Data.URL, nil
}

// Validate sniffs the content and returns the file extension to use.
func Validate(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image larger than %d bytes", MaxImageBytes)
	}
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	}
	return "", ErrUnsupportedType
}

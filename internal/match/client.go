package match

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/handiism/facematch/internal/http"
	ioutils "github.com/handiism/facematch/internal/io"
	"github.com/handiism/facematch/internal/match/dto"
	"github.com/handiism/facematch/internal/model"
	"go.uber.org/zap"
)

const (
	// TargetField is the multipart field carrying the target image.
	TargetField = "target"

	// ComparisonsField is the repeated multipart field carrying the
	// comparison images.
	ComparisonsField = "comparisons"

	// TargetFileName is the file name the target image is sent under.
	TargetFileName = "target.jpg"

	imageContentType = "image/jpeg"
)

// Config holds match client settings.
type Config struct {
	// Endpoint is the full URL of the verify endpoint,
	// e.g. "http://127.0.0.1:5000/verify".
	Endpoint string

	// MaxUploadSize, when positive, downscales every image to fit within
	// MaxUploadSize x MaxUploadSize pixels before sending. Zero sends the
	// stored bytes unchanged.
	MaxUploadSize int
}

// Client submits match requests to the remote face-matching server.
//
// Client builds one multipart request per submission: a "target" part and
// one "comparisons" part per comparison image, each named by its
// position. The server's answer is mapped back to the stored images.
//
// Example usage:
//
//	client := NewClient(http.NewClient("", 0), Config{Endpoint: endpoint}, logger)
//
//	result, err := client.Submit(ctx, target, comparisons)
//	var serr *ServerError
//	if errors.As(err, &serr) {
//	    fmt.Println(serr.Message)
//	}
type Client struct {
	httpClient *http.Client
	config     Config
	images     *ioutils.ImageService
	logger     *zap.Logger
}

// NewClient creates a new match Client.
func NewClient(httpClient *http.Client, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     logger,
	}
	if cfg.MaxUploadSize > 0 {
		c.images = ioutils.NewImageService(90)
	}
	return c
}

// Submit sends target and comparisons to the server and returns which
// comparisons matched.
//
// See SubmitWithProgress.
func (c *Client) Submit(ctx context.Context, target model.StoredImage, comparisons []model.StoredImage) (*model.MatchResult, error) {
	return c.SubmitWithProgress(ctx, target, comparisons, nil)
}

// SubmitWithProgress sends target and comparisons to the server and
// returns which comparisons matched, reporting upload progress to
// onProgress (may be nil).
//
// The call makes exactly one request and never retries:
//   - fewer than two comparisons fail with ErrTooFewComparisons before
//     any file is read or any request is made
//   - a non-2xx status fails with *ServerError carrying the server's
//     "error" message when it sent one
//   - a 2xx body that is not valid JSON fails with *ServerError
//   - names in the response that were never sent are dropped
func (c *Client) SubmitWithProgress(ctx context.Context, target model.StoredImage, comparisons []model.StoredImage, onProgress func(sent, total int64)) (*model.MatchResult, error) {
	if len(comparisons) < model.MinComparisons {
		return nil, ErrTooFewComparisons
	}

	sub := model.NewSubmission(target, comparisons)

	parts, err := c.buildParts(ctx, sub)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Submitting match request",
		zap.String("endpoint", c.config.Endpoint),
		zap.Int("comparisons", len(sub.Comparisons)))

	resp, err := c.httpClient.PostMultipart(ctx, c.config.Endpoint, parts, onProgress)
	if err != nil {
		return nil, fmt.Errorf("submit match request: %w", err)
	}

	if !resp.OK() {
		serr := &ServerError{StatusCode: resp.StatusCode}
		var body dto.ErrorResponse
		if json.Unmarshal(resp.Body, &body) == nil {
			serr.Message = body.Error
		}
		c.logger.Warn("Match server rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("message", serr.Message))
		return nil, serr
	}

	var body dto.VerifyResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed response: %v", err),
		}
	}

	result, dropped := body.ToMatchResult(sub)
	if len(dropped) > 0 {
		c.logger.Debug("Dropped unknown names from match response", zap.Strings("names", dropped))
	}

	c.logger.Info("Match request finished",
		zap.Int("matches", len(result.Matches)),
		zap.Int("non_matches", len(result.NonMatches)))
	return result, nil
}

// buildParts assembles the multipart fields for one submission.
func (c *Client) buildParts(ctx context.Context, sub *model.Submission) ([]http.FilePart, error) {
	parts := make([]http.FilePart, 0, len(sub.Comparisons)+1)

	part, err := c.part(ctx, TargetField, TargetFileName, sub.Target)
	if err != nil {
		return nil, err
	}
	parts = append(parts, part)

	for i, p := range sub.Comparisons {
		part, err := c.part(ctx, ComparisonsField, sub.SyntheticName(i), p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func (c *Client) part(ctx context.Context, field, name string, image model.StoredImage) (http.FilePart, error) {
	part := http.FilePart{
		Field:       field,
		FileName:    name,
		ContentType: imageContentType,
		Path:        string(image),
	}
	if c.images == nil {
		return part, nil
	}

	data, err := os.ReadFile(string(image))
	if err != nil {
		return part, err
	}
	small, err := c.images.Downscale(ctx, data, c.config.MaxUploadSize)
	if err != nil {
		return part, fmt.Errorf("downscale %s: %w", image, err)
	}
	part.Data = small
	return part, nil
}

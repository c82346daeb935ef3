package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"
)

// maxResponseBytes caps how much of a response body is read into memory.
const maxResponseBytes = 8 << 20

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "facematch"

// Client wraps HTTP operations with facematch-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Optional timeout (zero keeps the transport default of no timeout)
//   - Multipart file uploads with progress tracking
//
// Example usage:
//
//	client := NewClient("facematch/1.0", 0)
//
//	resp, err := client.PostMultipart(ctx, endpoint, parts, func(sent, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(sent)/float64(total)*100)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// A zero timeout leaves the request unbounded except for the caller's
// context; an empty userAgent means DefaultUserAgent.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// FilePart is one file field of a multipart form.
//
// The content comes from Data when it is non-nil, otherwise from the file
// at Path.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Path        string
	Data        []byte
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ProgressReader wraps a reader to track upload progress.
//
// Use this to monitor large uploads by providing an OnUpdate callback
// that receives the bytes read so far and the total expected bytes.
//
// Example:
//
//	pr := &ProgressReader{
//	    Reader: body,
//	    Total:  int64(len(payload)),
//	    OnUpdate: func(read, total int64) {
//	        fmt.Printf("%d / %d bytes\n", read, total)
//	    },
//	}
type ProgressReader struct {
	// Reader is the underlying reader.
	Reader io.Reader

	// Total is the expected total bytes.
	Total int64

	// ReadBytes is the current number of bytes read.
	ReadBytes int64

	// OnUpdate is called after each Read with current progress.
	OnUpdate func(read, total int64)
}

// Read implements io.Reader, tracking progress and calling OnUpdate.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	pr.ReadBytes += int64(n)
	if n > 0 && pr.OnUpdate != nil {
		pr.OnUpdate(pr.ReadBytes, pr.Total)
	}
	return n, err
}

// PostMultipart sends parts as a multipart/form-data POST and returns the
// response.
//
// The body is assembled in memory first so the request carries a
// Content-Length. Any status code is returned as a Response; only
// transport failures are errors.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: Endpoint to post to
//   - parts: File fields in the order they are written
//   - onProgress: Optional callback called with (bytesSent, totalBytes).
//     Pass nil to disable progress tracking
func (c *Client) PostMultipart(ctx context.Context, url string, parts []FilePart, onProgress func(sent, total int64)) (*Response, error) {
	body, contentType, err := encodeMultipart(parts)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = bytes.NewReader(body)
	if onProgress != nil {
		reader = &ProgressReader{
			Reader:   reader,
			Total:    int64(len(body)),
			OnUpdate: onProgress,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       data,
	}, nil
}

// encodeMultipart writes every part into one form body.
func encodeMultipart(parts []FilePart) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, part := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", multipart.FileContentDisposition(part.Field, part.FileName))
		contentType := part.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := mw.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if err := writePart(w, part); err != nil {
			return nil, "", fmt.Errorf("%s %s: %w", part.Field, part.FileName, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func writePart(w io.Writer, part FilePart) error {
	if part.Data != nil {
		_, err := w.Write(part.Data)
		return err
	}

	file, err := os.Open(part.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}

// Package http provides the HTTP client facematch talks to the match
// server with.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Multipart file uploads with progress tracking
//   - Optional timeout handling
//
// # Basic Usage
//
//	client := http.NewClient("facematch", 0)
//
//	parts := []http.FilePart{
//	    {Field: "target", FileName: "target.jpg", ContentType: "image/jpeg", Path: target},
//	}
//	resp, err := client.PostMultipart(ctx, "http://127.0.0.1:5000/verify", parts, nil)
//	if err == nil && !resp.OK() {
//	    // inspect resp.Body
//	}
//
// # Progress Tracking
//
// The ProgressReader type can wrap any io.Reader for progress tracking:
//
//	pr := &http.ProgressReader{
//	    Reader:   body,
//	    Total:    size,
//	    OnUpdate: func(read, total int64) { /* update UI */ },
//	}
package http

// Package match is the client for the remote face-matching server.
//
// # Protocol
//
// A submission is one multipart POST to the verify endpoint:
//
//	target       target.jpg
//	comparisons  comparison_0.jpg
//	comparisons  comparison_1.jpg
//	...
//
// The server answers {"matches": [...], "non_matches": [...]} with the
// comparison names, or {"error": "..."} with a non-2xx status.
//
// # Basic Usage
//
//	client := match.NewClient(httpClient, match.Config{Endpoint: endpoint}, logger)
//	result, err := client.Submit(ctx, target, comparisons)
//
// The comparison names are positional; the client keeps the index built
// for the submission (model.Submission) and maps the answer back to the
// stored images. Names it does not recognize are dropped.
package match

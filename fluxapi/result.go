package fluxapi

import "encoding/json"

type ResultKind int

const (
	// ResultEmpty means the model returned no usable output.
	ResultEmpty ResultKind = iota
	ResultSuccess
	ResultError
)

// Result is the normalized outcome of a prediction. The remote API hands
// back whatever shape it likes (a bare URL string, a list of URLs,
// nothing at all); callers only ever see this.
type Result struct {
	Kind   ResultKind
	URL    string
	Reason string
}

func normalizeOutput(status string, output json.RawMessage, apiErr string) Result {
	if status == "failed" || status == "canceled" {
		reason := apiErr
		if reason == "" {
			reason = status
		}
		return Result{Kind: ResultError, Reason: reason}
	}

	if len(output) == 0 || string(output) == "null" {
		return Result{Kind: ResultEmpty}
	}

	var url string
	if err := json.Unmarshal(output, &url); err == nil && url != "" {
		return Result{Kind: ResultSuccess, URL: url}
	}

	var urls []string
	if err := json.Unmarshal(output, &urls); err == nil && len(urls) > 0 && urls[0] != "" {
		return Result{Kind: ResultSuccess, URL: urls[0]}
	}

	return Result{Kind: ResultEmpty}
}

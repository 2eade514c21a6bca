package fluxapi

import (
	"encoding/json"
	"testing"
)

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name   string
		status string
		output string
		apiErr string
		want   Result
	}{
		{
			name:   "single url string",
			status: "succeeded",
			output: `"https://example.com/out.png"`,
			want:   Result{Kind: ResultSuccess, URL: "https://example.com/out.png"},
		},
		{
			name:   "url list takes the first",
			status: "succeeded",
			output: `["https://example.com/a.png","https://example.com/b.png"]`,
			want:   Result{Kind: ResultSuccess, URL: "https://example.com/a.png"},
		},
		{
			name:   "null output",
			status: "succeeded",
			output: `null`,
			want:   Result{Kind: ResultEmpty},
		},
		{
			name:   "missing output",
			status: "succeeded",
			want:   Result{Kind: ResultEmpty},
		},
		{
			name:   "empty list",
			status: "succeeded",
			output: `[]`,
			want:   Result{Kind: ResultEmpty},
		},
		{
			name:   "unrecognized shape",
			status: "succeeded",
			output: `{"weird":true}`,
			want:   Result{Kind: ResultEmpty},
		},
		{
			name:   "failed with reason",
			status: "failed",
			output: `"https://example.com/ignored.png"`,
			apiErr: "NSFW content detected",
			want:   Result{Kind: ResultError, Reason: "NSFW content detected"},
		},
		{
			name:   "canceled without reason",
			status: "canceled",
			want:   Result{Kind: ResultError, Reason: "canceled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.output != "" {
				raw = json.RawMessage(tt.output)
			}

			got := normalizeOutput(tt.status, raw, tt.apiErr)
			if got != tt.want {
				t.Errorf("normalizeOutput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

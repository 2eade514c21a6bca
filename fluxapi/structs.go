package fluxapi

import "encoding/json"

type predictionInput struct {
	Prompt       string `json:"prompt"`
	InputImage   string `json:"input_image"`
	OutputFormat string `json:"output_format,omitempty"`
}

type predictionRequest struct {
	Input predictionInput `json:"input"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

package fluxapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Zetic/zpt/config"
)

var ErrResponseCode = errors.New("got unexpected response code")
var ErrPredictionTimeout = errors.New("prediction did not finish in time")

var pollInterval = 2 * time.Second
var pollDeadline = 10 * time.Minute

var httpClient = http.Client{
	Timeout:   10 * time.Minute,
	Transport: &httpTransport{},
}

type httpTransport struct{}

func (t *httpTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	config.ConfigMutex.Lock()
	if config.Config.ReplicateToken != "" {
		req.Header.Set("Authorization", "Token "+config.Config.ReplicateToken)
	}
	config.ConfigMutex.Unlock()

	res, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= 400 {
		return res, fmt.Errorf("%w: %s", ErrResponseCode, res.Status)
	}

	return res, nil
}

func getAPIUrl() string {
	config.ConfigMutex.Lock()
	defer config.ConfigMutex.Unlock()

	return config.Config.ReplicateURL
}

func getModel() string {
	config.ConfigMutex.Lock()
	defer config.ConfigMutex.Unlock()

	return config.Config.FluxModel
}

func getOutputFormat() string {
	config.ConfigMutex.Lock()
	defer config.ConfigMutex.Unlock()

	return config.Config.OutputFormat
}

// Edit submits an image-edit prediction and waits for it to reach a
// terminal state. imageDataURI is the input image as a data URI. No
// retries; a failed prediction is reported as-is.
func Edit(prompt string, imageDataURI string) (Result, error) {
	body := predictionRequest{Input: predictionInput{
		Prompt:       prompt,
		InputImage:   imageDataURI,
		OutputFormat: getOutputFormat(),
	}}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequest("POST", getAPIUrl()+"/v1/models/"+getModel()+"/predictions", &buf)
	if err != nil {
		return Result{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "wait")

	res, err := httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}

	var prediction predictionResponse
	err = json.NewDecoder(res.Body).Decode(&prediction)
	res.Body.Close()
	if err != nil {
		return Result{}, err
	}

	deadline := time.Now().Add(pollDeadline)
	for prediction.Status == "starting" || prediction.Status == "processing" || prediction.Status == "" {
		if time.Now().After(deadline) {
			return Result{}, ErrPredictionTimeout
		}

		time.Sleep(pollInterval)

		updated, err := getPrediction(prediction.URLs.Get)
		if err != nil {
			return Result{}, err
		}

		prediction = *updated
	}

	return normalizeOutput(prediction.Status, prediction.Output, prediction.Error), nil
}

func getPrediction(url string) (*predictionResponse, error) {
	res, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()
	var prediction predictionResponse
	err = json.NewDecoder(res.Body).Decode(&prediction)
	return &prediction, err
}

// Download fetches a generated image from the prediction output URL.
func Download(url string) ([]byte, error) {
	res, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}

	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

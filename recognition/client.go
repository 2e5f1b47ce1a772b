package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single recognition call. The service does
// full face detection plus candidate matching, so it is generous.
const DefaultTimeout = 30 * time.Second

// Request is the payload sent to the external recognition service.
type Request struct {
	ImageRef            string   `json:"imageRef"`
	PersonIDs           []string `json:"personIds"`
	ConfidenceThreshold float64  `json:"confidenceThreshold"`
}

// FaceLocation is the css-style face rectangle the service reports.
type FaceLocation struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Box is the x/y/width/height form of the same rectangle.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Candidate is one possible identity for a detected face.
type Candidate struct {
	PersonID   string  `json:"personId"`
	PersonName string  `json:"personName"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
}

// FaceMatch is one detected face with zero or more identity candidates.
type FaceMatch struct {
	FaceID      string       `json:"faceId"`
	Location    FaceLocation `json:"location"`
	BoundingBox Box          `json:"boundingBox"`
	Matches     []Candidate  `json:"matches"`
}

// Dimensions reports the analyzed image size.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Result is the recognition outcome for one image. Transport failures,
// timeouts, and malformed responses all collapse to Success=false; the
// caller never sees them as errors.
type Result struct {
	Success          bool       `json:"success"`
	ProcessingTimeMs int64      `json:"processingTimeMs"`
	FacesDetected    int        `json:"facesDetected"`
	ImageDimensions  Dimensions `json:"imageDimensions"`
	Matches          []FaceMatch `json:"matches"`
	Error            string     `json:"error,omitempty"`
}

// Failure builds a failed Result with the given reason.
func Failure(format string, args ...interface{}) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Client calls the external person-recognition service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a recognition client for the service at baseURL.
// A zero timeout falls back to DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// MatchFaces submits one image for detection and candidate matching.
// Any failure is terminal for this (watcher, image) attempt: it is
// logged and reported as Success=false, never retried here.
func (c *Client) MatchFaces(ctx context.Context, imageRef string, personIDs []string, confidenceThreshold float64) Result {
	reqBody := Request{
		ImageRef:            imageRef,
		PersonIDs:           personIDs,
		ConfidenceThreshold: confidenceThreshold,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		log.Printf("recognition: failed to encode request for %s: %v", imageRef, err)
		return Failure("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/match", bytes.NewReader(payload))
	if err != nil {
		log.Printf("recognition: failed to build request for %s: %v", imageRef, err)
		return Failure("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("recognition: request failed for %s: %v", imageRef, err)
		return Failure("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("recognition: failed to read response for %s: %v", imageRef, err)
		return Failure("read response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("recognition: service returned status %d for %s", resp.StatusCode, imageRef)
		return Failure("service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("recognition: malformed response for %s: %v", imageRef, err)
		return Failure("malformed response: %v", err)
	}
	if !result.Success && result.Error == "" {
		result.Error = "recognition service reported failure"
	}
	return result
}

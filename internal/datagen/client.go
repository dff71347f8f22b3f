package datagen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/attrition/pkg/logger"
)

// Client talks to a running attrition service.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SmokeResult summarises one smoke run.
type SmokeResult struct {
	SessionID     string
	Rows          int
	AttritionRate float64
	TopJobRole    string
	Accuracy      float64
	Probability   float64
	Duration      time.Duration
}

type sessionResponse struct {
	ID   string `json:"id"`
	Rows int    `json:"rows"`
}

type overviewResponse struct {
	KPIs struct {
		AttritionRate float64 `json:"attrition_rate"`
	} `json:"kpis"`
	JobRole struct {
		Top string `json:"top"`
	} `json:"job_role"`
}

type formField struct {
	Name    string `json:"name"`
	Default any    `json:"default"`
}

type predictorResponse struct {
	Report struct {
		Accuracy float64 `json:"accuracy"`
	} `json:"report"`
	Form []formField `json:"form"`
}

type predictionResponse struct {
	Probability float64 `json:"probability"`
}

// Smoke uploads a generated dataset, reads the overview, builds the
// predictor, scores the form defaults and closes the session.
func (c *Client) Smoke(ctx context.Context, cfg Config) (SmokeResult, error) {
	start := time.Now()
	log := logger.Get().Named("smoke")

	var csv bytes.Buffer
	if err := Write(&csv, cfg); err != nil {
		return SmokeResult{}, err
	}

	var sess sessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions?name=generated.csv", "text/csv", csv.Bytes(), http.StatusCreated, &sess); err != nil {
		return SmokeResult{}, err
	}
	log.Info(ctx, "session opened", logger.String("session_id", sess.ID), logger.Int("rows", sess.Rows))
	base := "/sessions/" + sess.ID

	var ov overviewResponse
	if err := c.do(ctx, http.MethodGet, base+"/overview", "", nil, http.StatusOK, &ov); err != nil {
		return SmokeResult{}, err
	}

	var pred predictorResponse
	if err := c.do(ctx, http.MethodPost, base+"/predictor", "", nil, http.StatusOK, &pred); err != nil {
		return SmokeResult{}, err
	}
	log.Info(ctx, "predictor built", logger.Float64("accuracy", pred.Report.Accuracy))

	record := make(map[string]any, len(pred.Form))
	for _, f := range pred.Form {
		record[f.Name] = f.Default
	}
	body, err := json.Marshal(map[string]any{"record": record})
	if err != nil {
		return SmokeResult{}, fmt.Errorf("encode record: %w", err)
	}
	var p predictionResponse
	if err := c.do(ctx, http.MethodPost, base+"/predict", "application/json", body, http.StatusOK, &p); err != nil {
		return SmokeResult{}, err
	}

	if err := c.do(ctx, http.MethodDelete, base, "", nil, http.StatusNoContent, nil); err != nil {
		return SmokeResult{}, err
	}

	res := SmokeResult{
		SessionID:     sess.ID,
		Rows:          sess.Rows,
		AttritionRate: ov.KPIs.AttritionRate,
		TopJobRole:    ov.JobRole.Top,
		Accuracy:      pred.Report.Accuracy,
		Probability:   p.Probability,
		Duration:      time.Since(start),
	}
	log.Info(ctx, "smoke run finished",
		logger.Float64("attrition_rate", res.AttritionRate),
		logger.String("top_job_role", res.TopJobRole),
		logger.Float64("probability", res.Probability),
		logger.Duration("took", res.Duration),
	)
	return res, nil
}

// do sends one request and decodes the JSON response into out when set.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, want int, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrSmoke, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrSmoke, path, err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrSmoke, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrSmoke, path, err)
	}
	return nil
}

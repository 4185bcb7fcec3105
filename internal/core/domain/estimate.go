package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Estimate is the opaque answer of the AI estimator. The reply text arrives
// either as "message" or as "response".
type Estimate struct {
	Message    string          `json:"message"`
	Estimation json.RawMessage `json:"estimation,omitempty"`
	Price      *float64        `json:"price,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// EstimateRequest is the POST /estimator/estimate body.
type EstimateRequest struct {
	Description string `json:"description"`
}

type rawEstimate struct {
	Message    string          `json:"message"`
	Response   string          `json:"response"`
	Estimation json.RawMessage `json:"estimation"`
	Price      json.RawMessage `json:"price"`
	Error      string          `json:"error"`
}

func (e *Estimate) UnmarshalJSON(data []byte) error {
	var raw rawEstimate
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Message = raw.Message
	if e.Message == "" {
		e.Message = raw.Response
	}
	e.Error = raw.Error
	e.Estimation = nil
	if len(raw.Estimation) > 0 && !bytes.Equal(raw.Estimation, []byte("null")) {
		e.Estimation = raw.Estimation
	}
	e.Price = parsePrice(raw.Price)
	return nil
}

// parsePrice accepts a number or a numeric string; anything else is dropped.
func parsePrice(raw json.RawMessage) *float64 {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}

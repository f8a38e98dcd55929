// Package api is the client for the remote sensor REST API: the reading
// list, per-(sensor, room) threshold ranges and range updates.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/sensor"
)

// Endpoint paths relative to the base URL.
const (
	pathReadings    = "/getRegistros"
	pathRange       = "/getRange"
	pathChangeRange = "/changeRange"
)

// ErrUnexpectedFormat is returned when a response lacks the expected
// envelope or its data array.
var ErrUnexpectedFormat = errors.New("unexpected API response format")

// Describe renders err for display. A malformed response reads the same
// wherever it surfaces; anything else keeps its own text.
func Describe(err error) string {
	if errors.Is(err, ErrUnexpectedFormat) {
		return "Unexpected API response format"
	}
	return err.Error()
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

// Client talks to the remote API.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// New creates a client for baseURL, e.g.
// "https://iotrestapi.onrender.com/iot/api".
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &Client{http: rc, log: log}
}

// ── Wire types ───────────────────────────────────────────────────────

type registro struct {
	IDCuarto  int     `json:"id_cuarto"`
	FechaGMT6 string  `json:"fecha_gmt6"`
	Temp      float64 `json:"temp"`
	Humedad   float64 `json:"humedad"`
	Calidad   float64 `json:"calidad"`
}

type rangeRow struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type rangeRequest struct {
	Sensor   string `json:"sensor"`
	IDCuarto int    `json:"id_cuarto"`
}

type changeRangeRequest struct {
	Sensor   string  `json:"sensor"`
	IDCuarto int     `json:"id_cuarto"`
	Minimum  float64 `json:"minimum"`
	Maximum  float64 `json:"maximum"`
}

// ── Operations ───────────────────────────────────────────────────────

// FetchReadings returns the full reading list in source order. Readings
// for rooms other than 1-3 are dropped.
func (c *Client) FetchReadings(ctx context.Context) ([]sensor.Reading, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pathReadings)
	if err != nil {
		return nil, fmt.Errorf("fetch readings: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Op: "fetch readings", Status: resp.StatusCode()}
	}

	var rows []registro
	if err := decodeData(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("fetch readings: %w", err)
	}

	readings := make([]sensor.Reading, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		room := sensor.Room(row.IDCuarto)
		if !room.Valid() {
			dropped++
			continue
		}
		readings = append(readings, sensor.Reading{
			Room:        room,
			Timestamp:   row.FechaGMT6,
			Temperature: row.Temp,
			Humidity:    row.Humedad,
			AirQuality:  row.Calidad,
		})
	}
	if dropped > 0 {
		c.log.Warnw("readings_unknown_room", "dropped", dropped)
	}
	return readings, nil
}

// FetchRange returns the configured threshold range for (kind, room).
func (c *Client) FetchRange(ctx context.Context, kind sensor.Kind, room sensor.Room) (sensor.Range, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rangeRequest{Sensor: string(kind), IDCuarto: int(room)}).
		Post(pathRange)
	if err != nil {
		return sensor.Range{}, fmt.Errorf("fetch range %s/%d: %w", kind, room, err)
	}
	if resp.IsError() {
		return sensor.Range{}, &StatusError{Op: "fetch range", Status: resp.StatusCode()}
	}

	var rows []rangeRow
	if err := decodeData(resp.Body(), &rows); err != nil {
		return sensor.Range{}, fmt.Errorf("fetch range %s/%d: %w", kind, room, err)
	}
	if len(rows) == 0 {
		return sensor.Range{}, fmt.Errorf("fetch range %s/%d: %w", kind, room, ErrUnexpectedFormat)
	}
	return sensor.Range{Min: rows[0].Minimum, Max: rows[0].Maximum}, nil
}

// ChangeRange persists a threshold range. Only HTTP 200 counts as success.
func (c *Client) ChangeRange(ctx context.Context, tr sensor.ThresholdRange) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(changeRangeRequest{
			Sensor:   string(tr.Sensor),
			IDCuarto: int(tr.Room),
			Minimum:  tr.Min,
			Maximum:  tr.Max,
		}).
		Post(pathChangeRange)
	if err != nil {
		return fmt.Errorf("change range %s/%d: %w", tr.Sensor, tr.Room, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return &StatusError{Op: "change range", Status: resp.StatusCode()}
	}
	c.log.Infow("range_changed", "sensor", tr.Sensor, "room", int(tr.Room), "min", tr.Min, "max", tr.Max)
	return nil
}

// decodeData unmarshals the "data" array of a {"data": [...]} envelope
// into dst. A missing envelope, a missing field or a non-array value is
// ErrUnexpectedFormat.
func decodeData(body []byte, dst any) error {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	raw, ok := env["data"]
	if !ok || !isArray(raw) {
		return ErrUnexpectedFormat
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedFormat, err)
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luki/airguard/internal/logger"
	"github.com/luki/airguard/internal/sensor"
	"github.com/luki/airguard/internal/stubapi"
)

func newStubClient(t *testing.T) (*Client, *stubapi.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := stubapi.NewStore(100)
	srv := httptest.NewServer(stubapi.NewHandler(store, logger.Nop()).InitRoutes())
	t.Cleanup(srv.Close)
	return New(srv.URL+stubapi.BasePath, 2*time.Second, logger.Nop()), store
}

func newRawClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, logger.Nop())
}

func TestFetchReadings(t *testing.T) {
	c, store := newStubClient(t)
	store.Append(
		sensor.Reading{Room: sensor.Room1, Timestamp: "2024-11-20T14:00:00", Temperature: 21, Humidity: 40, AirQuality: 300},
		sensor.Reading{Room: sensor.Room3, Timestamp: "2024-11-20T14:00:00", Temperature: 24, Humidity: 50, AirQuality: 410},
	)

	got, err := c.FetchReadings(context.Background())
	if err != nil {
		t.Fatalf("FetchReadings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(got))
	}
	if got[1].Room != sensor.Room3 || got[1].AirQuality != 410 || got[1].Timestamp != "2024-11-20T14:00:00" {
		t.Errorf("unexpected reading: %+v", got[1])
	}
}

func TestFetchReadingsUnexpectedFormat(t *testing.T) {
	bodies := []string{
		`{"rows": []}`,
		`{"data": {"id_cuarto": 1}}`,
		`[1,2,3]`,
		`not json`,
	}
	for _, body := range bodies {
		c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		})
		_, err := c.FetchReadings(context.Background())
		if !errors.Is(err, ErrUnexpectedFormat) {
			t.Errorf("body %q: expected ErrUnexpectedFormat, got %v", body, err)
		}
	}
}

func TestFetchReadingsDropsUnknownRooms(t *testing.T) {
	c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[{"id_cuarto":1,"fecha_gmt6":"a","temp":1},{"id_cuarto":9,"fecha_gmt6":"b","temp":2}]}`)
	})
	got, err := c.FetchReadings(context.Background())
	if err != nil {
		t.Fatalf("FetchReadings: %v", err)
	}
	if len(got) != 1 || got[0].Room != sensor.Room1 {
		t.Fatalf("expected only room 1, got %+v", got)
	}
}

func TestFetchReadingsStatusError(t *testing.T) {
	c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.FetchReadings(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusBadGateway {
		t.Fatalf("expected 502 StatusError, got %v", err)
	}
}

func TestFetchRange(t *testing.T) {
	c, store := newStubClient(t)
	_ = store.SetRange(sensor.ThresholdRange{Sensor: sensor.Temperature, Room: sensor.Room2, Range: sensor.Range{Min: 10, Max: 30}})

	got, err := c.FetchRange(context.Background(), sensor.Temperature, sensor.Room2)
	if err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if got.Min != 10 || got.Max != 30 {
		t.Errorf("got %+v, want {10 30}", got)
	}
}

func TestFetchRangeSendsTokens(t *testing.T) {
	var body string
	c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, `{"data":[{"minimum":1,"maximum":2}]}`)
	})
	if _, err := c.FetchRange(context.Background(), sensor.AirQuality, sensor.Room3); err != nil {
		t.Fatalf("FetchRange: %v", err)
	}
	if !strings.Contains(body, `"sensor":"calidad"`) || !strings.Contains(body, `"id_cuarto":3`) {
		t.Errorf("unexpected request body: %s", body)
	}
}

func TestFetchRangeEmptyData(t *testing.T) {
	c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})
	_, err := c.FetchRange(context.Background(), sensor.Humidity, sensor.Room1)
	if !errors.Is(err, ErrUnexpectedFormat) {
		t.Fatalf("expected ErrUnexpectedFormat, got %v", err)
	}
}

func TestChangeRange(t *testing.T) {
	c, store := newStubClient(t)
	tr := sensor.ThresholdRange{Sensor: sensor.Humidity, Room: sensor.Room1, Range: sensor.Range{Min: 12, Max: 28}}
	if err := c.ChangeRange(context.Background(), tr); err != nil {
		t.Fatalf("ChangeRange: %v", err)
	}
	got, _ := store.Range(sensor.Humidity, sensor.Room1)
	if got.Min != 12 || got.Max != 28 {
		t.Errorf("store not updated: %+v", got)
	}
}

func TestChangeRangeNon200(t *testing.T) {
	// 201 is a success status but the API contract accepts only 200.
	c := newRawClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	err := c.ChangeRange(context.Background(), sensor.ThresholdRange{Sensor: sensor.Temperature, Room: sensor.Room1})
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusCreated {
		t.Fatalf("expected StatusError 201, got %v", err)
	}
}

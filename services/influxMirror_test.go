package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ieqi-server/confs"
	"ieqi-server/entities"
	"ieqi-server/logging"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

func TestInfluxMirrorWritesLineProtocol(t *testing.T) {
	bodies := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/write" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("bucket"); got != "readings" {
			t.Errorf("bucket = %q, want readings", got)
		}
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	opts := influxdb2.DefaultOptions().SetBatchSize(1)
	mirror := NewInfluxMirrorWithOptions(confs.InfluxConfig{
		URL:    srv.URL,
		Token:  "token",
		Org:    "home",
		Bucket: "readings",
	}, opts, logging.Discard())

	mirror.Publish(entities.Reading{
		ID:          1,
		DeviceID:    "esp32-01",
		Temperature: 21.5,
		Humidity:    40,
		Light:       300,
		IEQI:        82,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	mirror.Close()

	select {
	case body := <-bodies:
		for _, want := range []string{"ieqi,device_id=esp32-01", "temperature=21.5", "humidity=40", "light=300", "ieqi=82"} {
			if !strings.Contains(body, want) {
				t.Errorf("line protocol %q missing %q", body, want)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no write reached the influx endpoint")
	}
}

func TestInfluxMirrorSurvivesWriteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"invalid","message":"bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	opts := influxdb2.DefaultOptions().SetBatchSize(1).SetMaxRetries(0)
	mirror := NewInfluxMirrorWithOptions(confs.InfluxConfig{
		URL: srv.URL, Token: "token", Org: "home", Bucket: "missing",
	}, opts, logging.Discard())

	mirror.Publish(entities.Reading{DeviceID: "esp32-01", CreatedAt: time.Now()})

	done := make(chan struct{})
	go func() {
		mirror.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Close() did not return after a failed write")
	}
}

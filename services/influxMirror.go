package services

import (
	"log/slog"

	"ieqi-server/confs"
	"ieqi-server/entities"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

const measurement = "ieqi"

// InfluxMirror copies stored readings into an InfluxDB bucket. Writes are
// batched by the client in the background; failures are logged and never
// reach the HTTP caller.
type InfluxMirror struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	log      *slog.Logger
	done     chan struct{}
}

func NewInfluxMirror(cfg confs.InfluxConfig, log *slog.Logger) *InfluxMirror {
	return NewInfluxMirrorWithOptions(cfg, influxdb2.DefaultOptions(), log)
}

func NewInfluxMirrorWithOptions(cfg confs.InfluxConfig, opts *influxdb2.Options, log *slog.Logger) *InfluxMirror {
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, opts)
	m := &InfluxMirror{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		log:      log.With("component", "influx-mirror"),
		done:     make(chan struct{}),
	}

	errs := m.writeAPI.Errors()
	go func() {
		defer close(m.done)
		for err := range errs {
			m.log.Warn("influx write failed", "error", err)
		}
	}()

	m.log.Info("mirroring readings to influxdb", "url", cfg.URL, "bucket", cfg.Bucket)
	return m
}

// Publish queues reading for the next batch.
func (m *InfluxMirror) Publish(reading entities.Reading) {
	point := influxdb2.NewPoint(
		measurement,
		map[string]string{"device_id": reading.DeviceID},
		map[string]interface{}{
			"temperature": reading.Temperature,
			"humidity":    reading.Humidity,
			"light":       reading.Light,
			"ieqi":        reading.IEQI,
		},
		reading.CreatedAt,
	)
	m.writeAPI.WritePoint(point)
}

// Close flushes pending points and releases the client.
func (m *InfluxMirror) Close() {
	m.writeAPI.Flush()
	m.client.Close()
	<-m.done
}

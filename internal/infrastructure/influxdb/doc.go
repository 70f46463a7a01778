// Package influxdb provides an optional time-series telemetry sink.
//
// It wraps the official influxdb-client-go v2 library for recording
// device readings and state transitions. The in-memory history recorder
// serves the dashboard's charts; this sink exists for operators who
// want durable telemetry alongside it.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // sink switched off, carry on without it
//	}
//	defer client.Close()
//
//	client.WriteDeviceReading("temp-1", "TEMPERATURE", "Living Room", 21.5)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched per config.yaml (batch_size, flush_interval); async write
// errors are surfaced via SetOnError.
package influxdb

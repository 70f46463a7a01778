package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceReading records a numeric device value (sensor reading,
// brightness level, fan speed).
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Unique device identifier
//   - deviceType: Device type tag (LIGHT, TEMPERATURE, ...)
//   - location: Room or area tag
//   - value: The numeric value to record
func (c *Client) WriteDeviceReading(deviceID, deviceType, location string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_readings",
		map[string]string{
			"device_id": deviceID,
			"type":      deviceType,
			"location":  location,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteStateChange records a device on/off transition.
//
// Status is recorded as 1/0 so dashboards can graph duty cycles.
func (c *Client) WriteStateChange(deviceID, deviceType string, status bool) {
	if !c.IsConnected() {
		return
	}

	statusValue := 0
	if status {
		statusValue = 1
	}

	point := write.NewPoint(
		"state_changes",
		map[string]string{
			"device_id": deviceID,
			"type":      deviceType,
		},
		map[string]interface{}{
			"status": statusValue,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

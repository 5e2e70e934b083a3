// Package dataset generates the test payloads measured by the benchmark.
//
// Datasets are generated once per run, deterministically for a given seed, and
// are immutable afterward. The default suite reproduces the reference
// workload: IoT sensor telemetry at three size classes, a highly compressible
// repetitive payload, and an incompressible pseudo-random payload.
package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/iotsec-lab/pqcbench/internal/constants"
)

// SizeClass categorizes a dataset by payload size.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// ContentClass categorizes a dataset by how compressible its content is.
type ContentClass string

const (
	ContentStructured ContentClass = "structured"
	ContentRepetitive ContentClass = "repetitive"
	ContentRandom     ContentClass = "random"
)

// Dataset is a named byte sequence with its classification. Bytes must not be
// mutated after generation; the engine verifies round trips against them.
type Dataset struct {
	Name         string
	SizeClass    SizeClass
	ContentClass ContentClass
	Bytes        []byte
}

// Size returns the payload size in bytes.
func (d Dataset) Size() int {
	return len(d.Bytes)
}

// sensorReading models a single IoT telemetry message. The field layout
// mirrors a typical temperature/humidity node payload so the structured
// datasets compress the way real device traffic does.
type sensorReading struct {
	SensorID   string   `json:"sensor_id"`
	DeviceType string   `json:"device_type"`
	Timestamp  string   `json:"timestamp"`
	Location   location `json:"location"`
	Readings   readings `json:"readings"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type readings struct {
	Temperature    float64 `json:"temperature"`
	Humidity       float64 `json:"humidity"`
	Pressure       float64 `json:"pressure"`
	Battery        float64 `json:"battery"`
	SignalStrength int     `json:"signal_strength"`
}

// GenerateIoT builds a structured dataset of the given target size by
// repeating a marshalled sensor reading and truncating to size.
func GenerateIoT(name string, size int, class SizeClass) (Dataset, error) {
	reading := sensorReading{
		SensorID:   "temp_sensor_001",
		DeviceType: "temperature_humidity",
		Timestamp:  "2026-01-04T10:30:00Z",
		Location:   location{Lat: 33.5731, Lon: -7.5898},
		Readings: readings{
			Temperature:    25.5,
			Humidity:       60.2,
			Pressure:       1013.25,
			Battery:        87.5,
			SignalStrength: -65,
		},
	}

	unit, err := json.Marshal(reading)
	if err != nil {
		return Dataset{}, fmt.Errorf("marshal sensor reading: %w", err)
	}

	buf := make([]byte, 0, size+len(unit))
	for len(buf) < size {
		buf = append(buf, unit...)
	}

	return Dataset{
		Name:         name,
		SizeClass:    class,
		ContentClass: ContentStructured,
		Bytes:        buf[:size],
	}, nil
}

// GenerateRepetitive builds a highly compressible dataset: half zeros, half
// ones, scaled to the target size.
func GenerateRepetitive(name string, size int, class SizeClass) Dataset {
	buf := make([]byte, size)
	for i := size / 2; i < size; i++ {
		buf[i] = '1'
	}
	for i := 0; i < size/2; i++ {
		buf[i] = '0'
	}
	return Dataset{
		Name:         name,
		SizeClass:    class,
		ContentClass: ContentRepetitive,
		Bytes:        buf,
	}
}

// GenerateRandom builds an incompressible dataset from a seeded PRNG.
// Deterministic for a given seed so repeated runs are diffable.
func GenerateRandom(name string, size int, class SizeClass, seed int64) Dataset {
	rng := rand.New(rand.NewSource(seed))
	buf := make([]byte, size)
	rng.Read(buf)
	return Dataset{
		Name:         name,
		SizeClass:    class,
		ContentClass: ContentRandom,
		Bytes:        buf,
	}
}

// DefaultSuite generates the standard five-dataset benchmark workload.
func DefaultSuite(seed int64) ([]Dataset, error) {
	small, err := GenerateIoT("iot_small", constants.DatasetSmallSize, SizeSmall)
	if err != nil {
		return nil, err
	}
	medium, err := GenerateIoT("iot_medium", constants.DatasetMediumSize, SizeMedium)
	if err != nil {
		return nil, err
	}
	large, err := GenerateIoT("iot_large", constants.DatasetLargeSize, SizeLarge)
	if err != nil {
		return nil, err
	}

	return []Dataset{
		small,
		medium,
		large,
		GenerateRepetitive("repetitive", constants.DatasetMediumSize, SizeMedium),
		GenerateRandom("random", constants.DatasetMediumSize, SizeMedium, seed),
	}, nil
}

// QuickSuite generates the single dataset used by the reduced matrix.
func QuickSuite() ([]Dataset, error) {
	medium, err := GenerateIoT("iot_medium", constants.DatasetMediumSize, SizeMedium)
	if err != nil {
		return nil, err
	}
	return []Dataset{medium}, nil
}

package converter

import (
	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/stat"
)

// Hardware calibration constants, physical units per LSB.
const (
	// 1 / 0.185 V/A * (4.096 / 4096)
	CALIBRATION_5A = 0.005405405
	// 1 / 0.066 V/A * (4.096 / 4096)
	CALIBRATION_30A = 0.015151515
	// 230V / (6V * 1.478 idle volt) * (110 kOhm / 10 kOhm) * (4.096 / 4096)
	CALIBRATION_MC_VOLTAGE = 0.2853

	// 225 Vrms => 317.25 Vpeak == 28400 => 28400 / 317.25
	CALIBRATION_FPGA_VOLTAGE = 0.011170775
	// 3 turns, 50 Arms, calibrated with a kettle: 7.15 Arms + 0.19 Arms baseline
	CALIBRATION_FPGA_CURRENT = 0.000962500
)

// Mid-scale center of the microcontroller ADC for the current sensors
const MC_CURRENT_OFFSET = 2500

// Channel 1 has the 30A sensor, the rest the 5A one
var microControllerCurrentCalibration = map[int]float64{
	1: CALIBRATION_30A,
	2: CALIBRATION_5A,
	3: CALIBRATION_5A,
	4: CALIBRATION_5A,
	5: CALIBRATION_5A,
	6: CALIBRATION_5A,
}

// RemovedOffset is the constant subtracted from the raw samples. Fixed
// offsets are stored as integers, computed ones as the exact mean.
type RemovedOffset struct {
	Fixed    uint16
	Mean     float64
	Computed bool
}

// Value returns the offset as a float regardless of how it is stored.
func (o RemovedOffset) Value() float64 {
	if o.Computed {
		return o.Mean
	}
	return float64(o.Fixed)
}

// Channel is a calibrated channel ready to be written.
type Channel struct {
	Name              string
	Role              ChannelRole
	Samples           []int16
	CalibrationFactor float64
	RemovedOffset     RemovedOffset
}

// Physical returns sample i in physical units.
func (c *Channel) Physical(i int) float64 {
	return float64(c.Samples[i]) * c.CalibrationFactor
}

func MicroControllerCurrentCalibration(channelID int) (float64, bool) {
	factor, ok := microControllerCurrentCalibration[channelID]
	return factor, ok
}

func toFloat64[T constraints.Integer](values []T) []float64 {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return floats
}

// calibrateFixedOffset subtracts a constant offset from every sample.
func calibrateFixedOffset[T constraints.Integer](spec ChannelSpec, raw []T, offset uint16, factor float64) Channel {
	samples := make([]int16, len(raw))
	for i, v := range raw {
		samples[i] = int16(int32(v) - int32(offset))
	}
	return Channel{
		Name:              spec.Name,
		Role:              spec.Role,
		Samples:           samples,
		CalibrationFactor: factor,
		RemovedOffset:     RemovedOffset{Fixed: offset},
	}
}

// calibrateMeanOffset removes the integer part of the capture mean and
// records the mean itself.
func calibrateMeanOffset[T constraints.Integer](spec ChannelSpec, raw []T, factor float64) Channel {
	var mean float64
	if len(raw) > 0 {
		mean = stat.Mean(toFloat64(raw), nil)
	}
	offset := int32(mean)
	samples := make([]int16, len(raw))
	for i, v := range raw {
		samples[i] = int16(int32(v) - offset)
	}
	return Channel{
		Name:              spec.Name,
		Role:              spec.Role,
		Samples:           samples,
		CalibrationFactor: factor,
		RemovedOffset:     RemovedOffset{Mean: mean, Computed: true},
	}
}

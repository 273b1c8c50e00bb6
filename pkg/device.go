package converter

import (
	"fmt"
	"strings"
)

type DeviceKind int

const (
	MicroController DeviceKind = iota
	FPGA
)

func (k DeviceKind) String() string {
	switch k {
	case MicroController:
		return "microcontroller"
	case FPGA:
		return "fpga"
	default:
		return "unknown"
	}
}

// Capture is the decoded packet sequence of one input file.
type Capture interface {
	Len() int
	FirstTrigger() uint16
	LastTrigger() uint16
}

// Device is implemented only by MicroControllerDevice and FPGADevice.
type Device interface {
	Kind() DeviceKind
	// Channels lists the datasets written for this device, in order.
	Channels() []ChannelSpec
	Decode(data []byte) (Capture, error)
	ExtractChannel(capture Capture, spec ChannelSpec) ([]int32, error)
	Calibrate(spec ChannelSpec, raw []int32) (Channel, error)
	sealed()
}

func NewDevice(kind DeviceKind) (Device, error) {
	switch kind {
	case MicroController:
		return MicroControllerDevice{}, nil
	case FPGA:
		return FPGADevice{}, nil
	default:
		return nil, fmt.Errorf("unknown device kind %d", kind)
	}
}

// ParseDevice selects a device by name as given on the command line.
func ParseDevice(name string) (Device, error) {
	for _, kind := range []DeviceKind{MicroController, FPGA} {
		if strings.EqualFold(name, kind.String()) {
			return NewDevice(kind)
		}
	}
	return nil, fmt.Errorf("unknown device %q, expected %s or %s", name, MicroController, FPGA)
}

type microControllerCapture []MicroControllerPacket

func (c microControllerCapture) Len() int             { return len(c) }
func (c microControllerCapture) FirstTrigger() uint16 { return c[0].Trigger }
func (c microControllerCapture) LastTrigger() uint16  { return c[len(c)-1].Trigger }

type fpgaCapture []FPGAPacket

func (c fpgaCapture) Len() int             { return len(c) }
func (c fpgaCapture) FirstTrigger() uint16 { return c[0].Trigger }
func (c fpgaCapture) LastTrigger() uint16  { return c[len(c)-1].Trigger }

// MicroControllerDevice is the bit-serial ADC multiplexer front-end.
type MicroControllerDevice struct{}

func (MicroControllerDevice) Kind() DeviceKind { return MicroController }
func (MicroControllerDevice) sealed()          {}

func (MicroControllerDevice) Channels() []ChannelSpec {
	channels := make([]ChannelSpec, 0, MC_VOLTAGE_CHANNEL)
	for id := MC_FIRST_CURRENT_CHANNEL; id <= MC_LAST_CURRENT_CHANNEL; id++ {
		channels = append(channels, ChannelSpec{Name: fmt.Sprintf("current%d", id), ID: id, Role: Current})
	}
	return append(channels, ChannelSpec{Name: "voltage", ID: MC_VOLTAGE_CHANNEL, Role: Voltage})
}

func (MicroControllerDevice) Decode(data []byte) (Capture, error) {
	packets, err := DecodeMicroController(data)
	if err != nil {
		return nil, err
	}
	return microControllerCapture(packets), nil
}

func (d MicroControllerDevice) ExtractChannel(capture Capture, spec ChannelSpec) ([]int32, error) {
	packets, ok := capture.(microControllerCapture)
	if !ok {
		return nil, fmt.Errorf("%s device cannot extract from %T", d.Kind(), capture)
	}
	samples, err := ExtractMicroControllerChannel(packets, spec.ID)
	if err != nil {
		return nil, err
	}
	return widen(samples), nil
}

func (d MicroControllerDevice) Calibrate(spec ChannelSpec, raw []int32) (Channel, error) {
	switch spec.Role {
	case Voltage:
		return calibrateMeanOffset(spec, raw, CALIBRATION_MC_VOLTAGE), nil
	case Current:
		factor, ok := MicroControllerCurrentCalibration(spec.ID)
		if !ok {
			return Channel{}, &ChannelError{Device: d.Kind().String(), Channel: spec.Name}
		}
		return calibrateFixedOffset(spec, raw, MC_CURRENT_OFFSET, factor), nil
	default:
		return Channel{}, &ChannelError{Device: d.Kind().String(), Channel: spec.Name}
	}
}

// FPGADevice is the parallel ADC front-end with three phases.
type FPGADevice struct{}

func (FPGADevice) Kind() DeviceKind { return FPGA }
func (FPGADevice) sealed()          {}

func (FPGADevice) Channels() []ChannelSpec {
	channels := make([]ChannelSpec, 0, 6)
	for phase := 1; phase <= 3; phase++ {
		adc := (phase - 1) * 2
		channels = append(channels,
			ChannelSpec{Name: fmt.Sprintf("voltage%d", phase), ID: adc, Role: Voltage},
			ChannelSpec{Name: fmt.Sprintf("current%d", phase), ID: adc + 1, Role: Current},
		)
	}
	return channels
}

func (FPGADevice) Decode(data []byte) (Capture, error) {
	packets, err := DecodeFPGA(data)
	if err != nil {
		return nil, err
	}
	return fpgaCapture(packets), nil
}

func (d FPGADevice) ExtractChannel(capture Capture, spec ChannelSpec) ([]int32, error) {
	packets, ok := capture.(fpgaCapture)
	if !ok {
		return nil, fmt.Errorf("%s device cannot extract from %T", d.Kind(), capture)
	}
	samples, err := ExtractFPGAChannel(packets, spec.ID)
	if err != nil {
		return nil, err
	}
	return widen(samples), nil
}

func (d FPGADevice) Calibrate(spec ChannelSpec, raw []int32) (Channel, error) {
	switch spec.Role {
	case Voltage:
		return calibrateFixedOffset(spec, raw, 0, CALIBRATION_FPGA_VOLTAGE), nil
	case Current:
		return calibrateFixedOffset(spec, raw, 0, CALIBRATION_FPGA_CURRENT), nil
	default:
		return Channel{}, &ChannelError{Device: d.Kind().String(), Channel: spec.Name}
	}
}

func widen[T uint16 | int16](samples []T) []int32 {
	wide := make([]int32, len(samples))
	for i, s := range samples {
		wide[i] = int32(s)
	}
	return wide
}

package converter

import "fmt"

// Microcontroller channel ids. Channel 0 is empty and free-floating.
const (
	MC_FIRST_CURRENT_CHANNEL = 1
	MC_LAST_CURRENT_CHANNEL  = 6
	MC_VOLTAGE_CHANNEL       = 7
)

type ChannelRole int

const (
	Current ChannelRole = iota
	Voltage
)

func (r ChannelRole) String() string {
	switch r {
	case Current:
		return "current"
	case Voltage:
		return "voltage"
	default:
		return "unknown"
	}
}

// ChannelSpec identifies one logical channel of a device. ID is the bit
// position for the microcontroller and the ADC index for the FPGA.
type ChannelSpec struct {
	Name string
	ID   int
	Role ChannelRole
}

// ExtractMicroControllerChannel rebuilds the 12 bit samples of channel c.
//
// Bit c of every payload byte is one bit of the sample. The first
// transmitted byte (D11) holds the least significant bit and the last one
// (D0) the most significant bit: this follows the hardware transmission
// order, not the byte names.
func ExtractMicroControllerChannel(packets []MicroControllerPacket, c int) ([]uint16, error) {
	if c < MC_FIRST_CURRENT_CHANNEL || c > MC_VOLTAGE_CHANNEL {
		return nil, &ChannelError{Device: MicroController.String(), Channel: fmt.Sprint(c)}
	}
	samples := make([]uint16, len(packets))
	for i, packet := range packets {
		var sample uint16
		for position, b := range packet.Payload {
			sample |= uint16((b>>c)&1) << position
		}
		samples[i] = sample
	}
	return samples, nil
}

// ExtractFPGAChannel projects the ADC field with index adc (0-5, in packet
// order voltage1, current1, ..., current3).
func ExtractFPGAChannel(packets []FPGAPacket, adc int) ([]int16, error) {
	var field func(p *FPGAPacket) int16
	switch adc {
	case 0:
		field = func(p *FPGAPacket) int16 { return p.Voltage1 }
	case 1:
		field = func(p *FPGAPacket) int16 { return p.Current1 }
	case 2:
		field = func(p *FPGAPacket) int16 { return p.Voltage2 }
	case 3:
		field = func(p *FPGAPacket) int16 { return p.Current2 }
	case 4:
		field = func(p *FPGAPacket) int16 { return p.Voltage3 }
	case 5:
		field = func(p *FPGAPacket) int16 { return p.Current3 }
	default:
		return nil, &ChannelError{Device: FPGA.String(), Channel: fmt.Sprintf("ADC%d", adc)}
	}
	samples := make([]int16, len(packets))
	for i := range packets {
		samples[i] = field(&packets[i])
	}
	return samples, nil
}

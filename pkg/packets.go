package converter

import (
	"bytes"
	"encoding/binary"
)

const PACKET_SIZE = 14

// Number of multiplexed payload bytes in a microcontroller packet
const PAYLOAD_BYTES = 12

// MicroControllerPacket layout:
//
//	byte 0:     trigger number MSB
//	byte 1:     trigger number LSB
//	bytes 2-13: samples D11, D10, ..., D0
//
// Every payload byte carries one bit of each channel.
type MicroControllerPacket struct {
	Trigger uint16
	Payload [PAYLOAD_BYTES]byte
}

// FPGAPacket layout, all words little endian:
//
//	bytes 0-1:   trigger tag
//	bytes 2-5:   ADC0 voltage1, ADC1 current1
//	bytes 6-9:   ADC2 voltage2, ADC3 current2
//	bytes 10-13: ADC4 voltage3, ADC5 current3
type FPGAPacket struct {
	Trigger  uint16
	Voltage1 int16
	Current1 int16
	Voltage2 int16
	Current2 int16
	Voltage3 int16
	Current3 int16
}

// PacketCount returns the number of whole packets in size bytes and the
// number of trailing bytes that do not make up a packet.
func PacketCount(size int64) (int, int) {
	return int(size / PACKET_SIZE), int(size % PACKET_SIZE)
}

func checkAlignment(data []byte) error {
	if len(data)%PACKET_SIZE != 0 {
		return &FormatError{Length: len(data), PacketSize: PACKET_SIZE}
	}
	return nil
}

func DecodeMicroController(data []byte) ([]MicroControllerPacket, error) {
	if err := checkAlignment(data); err != nil {
		return nil, err
	}
	packets := make([]MicroControllerPacket, len(data)/PACKET_SIZE)
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, packets); err != nil {
		return nil, err
	}
	return packets, nil
}

func DecodeFPGA(data []byte) ([]FPGAPacket, error) {
	if err := checkAlignment(data); err != nil {
		return nil, err
	}
	packets := make([]FPGAPacket, len(data)/PACKET_SIZE)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, packets); err != nil {
		return nil, err
	}
	return packets, nil
}

package converter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMicroController(t *testing.T) {
	payload := [PAYLOAD_BYTES]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 0xff}
	data := append(microControllerBytes(0x1234, payload), microControllerBytes(0xfffe, [PAYLOAD_BYTES]byte{})...)

	packets, err := DecodeMicroController(data)
	require.NoError(t, err)
	require.Len(t, packets, 2)

	assert.Equal(t, uint16(0x1234), packets[0].Trigger, "trigger is big endian")
	assert.Equal(t, payload, packets[0].Payload)
	assert.Equal(t, uint16(0xfffe), packets[1].Trigger)
}

func TestDecodeFPGA(t *testing.T) {
	want := FPGAPacket{
		Trigger:  0xabcd,
		Voltage1: -28400,
		Current1: 17,
		Voltage2: 28400,
		Current2: -1,
		Voltage3: 0,
		Current3: -32768,
	}
	data := fpgaBytes(want)
	require.Equal(t, []byte{0xcd, 0xab}, data[:2], "trigger is little endian")

	packets, err := DecodeFPGA(data)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, want, packets[0])
}

func TestDecodeRejectsUnalignedBuffer(t *testing.T) {
	data := make([]byte, PACKET_SIZE+3)

	_, err := DecodeMicroController(data)
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, PACKET_SIZE+3, formatErr.Length)

	_, err = DecodeFPGA(data)
	require.True(t, errors.As(err, &formatErr))
}

func TestDecodeEmptyBuffer(t *testing.T) {
	packets, err := DecodeMicroController(nil)
	require.NoError(t, err)
	assert.Empty(t, packets)
}

func TestPacketCount(t *testing.T) {
	count, remainder := PacketCount(14*5 + 3)
	assert.Equal(t, 5, count)
	assert.Equal(t, 3, remainder)

	count, remainder = PacketCount(28)
	assert.Equal(t, 2, count)
	assert.Zero(t, remainder)
}

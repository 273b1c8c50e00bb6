package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePrefix = regexp.MustCompile(`^\[\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\] `)

func TestLoggerFormat(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&out)

	logger.Info("Converted to x.hdf5 in 0 seconds and 10 bytes.", "converter")
	logger.Warn("Last packet in file incomplete in file: x.bin", "converter")
	logger.Error("Converting failed: boom")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, linePrefix, line)
	}
	assert.True(t, strings.HasSuffix(lines[0], " [converter] Converted to x.hdf5 in 0 seconds and 10 bytes."), lines[0])
	assert.Contains(t, lines[1], " [WARN] [converter] Last packet")
	assert.True(t, strings.HasSuffix(lines[2], " [ERROR] Converting failed: boom"), lines[2])
}

func TestLoggerSplitsMultilineMessages(t *testing.T) {
	var out bytes.Buffer
	NewLogger(&out).Error("first\nsecond\n")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, linePrefix, lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "first"))
	assert.Regexp(t, linePrefix, lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "second"))
}

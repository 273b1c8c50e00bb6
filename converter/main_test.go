package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	converter "github.com/medal-daq/converter_go/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopDataset struct{}

func (nopDataset) WriteAttribute(string, any) error { return nil }
func (nopDataset) Close() error                     { return nil }

type fileContainer struct {
	path     string
	datasets []string
}

func (c *fileContainer) WriteAttribute(string, any) error { return nil }

func (c *fileContainer) CreateDataset(name string, samples []int16) (converter.Dataset, error) {
	c.datasets = append(c.datasets, name)
	return nopDataset{}, nil
}

func (c *fileContainer) Close() error {
	return os.WriteFile(c.path, []byte(strings.Join(c.datasets, "\n")), 0644)
}

func useFileContainers(t *testing.T) {
	t.Helper()
	previous := newContainerFactory
	newContainerFactory = func(converter.Configuration) converter.ContainerFactory {
		return func(path string) (converter.Container, error) {
			return &fileContainer{path: path}, nil
		}
	}
	t.Cleanup(func() { newContainerFactory = previous })
}

func fpgaCapture(packets int) []byte {
	var buf bytes.Buffer
	for i := 0; i < packets; i++ {
		binary.Write(&buf, binary.LittleEndian, converter.FPGAPacket{Trigger: uint16(i), Voltage1: int16(i)})
	}
	return buf.Bytes()
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := "output_dir: " + filepath.Join(dir, "ram") + "\nlog_file: " + filepath.Join(dir, "log", "converter.log") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunConvertsFiles(t *testing.T) {
	useFileContainers(t)
	dir := t.TempDir()
	config := writeConfig(t, dir)
	good := filepath.Join(dir, "unit-2016-06-04T22-24-42.411571+0200-0000001.bin")
	require.NoError(t, os.WriteFile(good, fpgaCapture(3), 0644))
	metrics := filepath.Join(dir, "converter.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", config, "-metrics-file", metrics, good, "1000", "fpga", "--keep-file"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.FileExists(t, filepath.Join(dir, "ram", "unit-2016-06-04T22-24-42.411571+0200-0000001.hdf5"))
	assert.FileExists(t, good, "-keep-file keeps the input")
	assert.FileExists(t, metrics)

	log, err := os.ReadFile(filepath.Join(dir, "log", "converter.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "Converted to unit-2016-06-04T22-24-42.411571+0200-0000001.hdf5")
	assert.Contains(t, stderr.String(), "Converted to")
}

func TestRunReportsFailures(t *testing.T) {
	useFileContainers(t)
	dir := t.TempDir()
	config := writeConfig(t, dir)
	bad := filepath.Join(dir, "garbage.bin")
	require.NoError(t, os.WriteFile(bad, fpgaCapture(1), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", config, bad, "50000", "microcontroller"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Converting failed: filename not matched")
	assert.FileExists(t, bad)
}

func TestRunGnuplot(t *testing.T) {
	useFileContainers(t)
	dir := t.TempDir()
	config := writeConfig(t, dir)
	input := filepath.Join(dir, "unit-2016-06-04T22-24-42.411571+0200-0000001.bin")
	require.NoError(t, os.WriteFile(input, fpgaCapture(2), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{input, "1000", "FPGA", "-config", config, "--gnuplot"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "0 0 0 0 0 0\n1 0 0 0 0 0\n", stdout.String())
	assert.NoFileExists(t, input)
}

func TestParseArguments(t *testing.T) {
	var stderr bytes.Buffer
	a, err := parseArguments([]string{"-preview-dir", "png", "a.bin", "b.bin", "50000", "microcontroller"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, converter.MicroController, a.device.Kind())
	assert.Equal(t, uint64(50000), a.frequency)
	assert.Equal(t, []string{"a.bin", "b.bin"}, a.inputs)
	assert.Equal(t, "png", a.previewDir)

	config := converter.DefaultConfiguration()
	config.NumWorkers = 8
	a.gnuplot = true
	a.apply(&config)
	assert.Equal(t, "png", config.PreviewDir)
	assert.True(t, config.Gnuplot)
	assert.Equal(t, 1, config.NumWorkers)

	_, err = parseArguments([]string{"a.bin", "50000"}, &stderr)
	assert.Error(t, err)
	_, err = parseArguments([]string{"a.bin", "50000", "scope"}, &stderr)
	assert.ErrorContains(t, err, "unknown device")
	_, err = parseArguments([]string{"a.bin", "fast", "fpga"}, &stderr)
	assert.ErrorContains(t, err, "invalid frequency")
}

// The acquisition daemon runs its post split script as
// "script <file> <frequency> <device>", optionally followed by flags.
func TestParseArgumentsDaemonOrder(t *testing.T) {
	var stderr bytes.Buffer
	a, err := parseArguments([]string{"unit-2016-06-04T22-24-42.411571+0200-0000001.bin", "50000", "microcontroller"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, converter.MicroController, a.device.Kind())
	assert.Equal(t, uint64(50000), a.frequency)
	assert.Equal(t, []string{"unit-2016-06-04T22-24-42.411571+0200-0000001.bin"}, a.inputs)
	assert.False(t, a.keepFile)

	a, err = parseArguments([]string{"x.bin", "--keep-file", "1000", "fpga", "--gnuplot"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, converter.FPGA, a.device.Kind())
	assert.Equal(t, []string{"x.bin"}, a.inputs)
	assert.True(t, a.keepFile)
	assert.True(t, a.gnuplot)
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"fpga"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), usage)
}

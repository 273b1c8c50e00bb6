package converter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Readers must never open files with this suffix.
const INPROGRESS_SUFFIX = ".inprogress"

const OUTPUT_EXTENSION = ".hdf5"

// Result describes one conversion, successful or not.
type Result struct {
	RunID       string
	InputPath   string
	OutputPath  string
	Metadata    CaptureMetadata
	Samples     int
	Truncated   bool
	OutputBytes int64
	Elapsed     time.Duration
}

// Converter turns capture files of one device into containers. Catalog,
// Metrics and Stdout are optional.
type Converter struct {
	config    Configuration
	device    Device
	frequency uint64
	create    ContainerFactory
	logger    Logger

	Catalog *Catalog
	Metrics *Metrics
	Stdout  io.Writer
}

func NewConverter(config Configuration, device Device, frequency uint64, create ContainerFactory, logger Logger) *Converter {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Converter{
		config:    config,
		device:    device,
		frequency: frequency,
		create:    create,
		logger:    logger,
		Stdout:    os.Stdout,
	}
}

// OutputPath returns the published container path for an input file.
func OutputPath(outputDir string, input string) string {
	file := filepath.Base(input)
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(outputDir, stem+OUTPUT_EXTENSION)
}

// Convert runs the whole conversion of input. The output is visible under
// its final name only if the returned error is nil.
func (c *Converter) Convert(input string) (Result, error) {
	start := time.Now()
	result := Result{RunID: uuid.NewString(), InputPath: input}
	if c.config.Verbosity > 0 {
		c.logger.Info(fmt.Sprintf("Converting %s (run %s)", input, result.RunID), "converter")
	}

	channels, err := c.convert(input, &result)
	if err != nil {
		c.Metrics.ObserveFailure(c.device.Kind())
		return result, err
	}
	result.Elapsed = time.Since(start)

	c.logger.Info(fmt.Sprintf("Converted to %s in %d seconds and %d bytes.",
		filepath.Base(result.OutputPath), int(math.Round(result.Elapsed.Seconds())), result.OutputBytes), "converter")

	c.Metrics.ObserveSuccess(c.device.Kind(), result.Samples, result.OutputBytes, result.Elapsed)
	c.afterPublish(&result, channels)
	return result, nil
}

func (c *Converter) convert(input string, result *Result) ([]Channel, error) {
	data, truncated, err := c.readCapture(input)
	if err != nil {
		return nil, err
	}
	result.Truncated = truncated

	capture, err := c.device.Decode(data)
	if err != nil {
		return nil, err
	}
	result.Samples = capture.Len()

	meta, err := ParseFilename(input)
	if err != nil {
		return nil, err
	}
	if capture.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(input), ErrEmptyCapture)
	}
	meta.Frequency = c.frequency
	meta.FirstTriggerID = capture.FirstTrigger()
	meta.LastTriggerID = capture.LastTrigger()
	result.Metadata = meta

	finalPath := OutputPath(c.config.OutputDir, input)
	tmpPath := finalPath + INPROGRESS_SUFFIX
	if err := os.MkdirAll(c.config.OutputDir, 0755); err != nil {
		return nil, &IOError{Op: "creating output dir", Path: c.config.OutputDir, Err: err}
	}

	channels, err := c.writeContainer(tmpPath, meta, capture)
	if err != nil {
		c.discard(tmpPath)
		return nil, err
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		c.discard(tmpPath)
		return nil, &IOError{Op: "publishing", Path: finalPath, Err: err}
	}
	result.OutputPath = finalPath
	if info, err := os.Stat(finalPath); err == nil {
		result.OutputBytes = info.Size()
	}

	if !c.config.KeepFile {
		if err := os.Remove(input); err != nil {
			c.logger.Error(fmt.Sprintf("error removing converted input %s: %v", input, err))
		}
	}
	return channels, nil
}

// readCapture returns the whole packets of input. A trailing partial
// packet is dropped and reported.
func (c *Converter) readCapture(input string) ([]byte, bool, error) {
	file, err := os.Open(input)
	if err != nil {
		return nil, false, &IOError{Op: "opening input", Path: input, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, false, &IOError{Op: "reading input", Path: input, Err: err}
	}
	samplesCount, remainder := PacketCount(info.Size())
	truncated := remainder != 0
	if truncated {
		c.logger.Warn(fmt.Sprintf("Last packet in file incomplete in file: %s", input), "converter")
		c.Metrics.ObserveTruncated(c.device.Kind())
	}

	data := make([]byte, samplesCount*PACKET_SIZE)
	if _, err := io.ReadFull(file, data); err != nil {
		return nil, false, &IOError{Op: "reading input", Path: input, Err: err}
	}
	return data, truncated, nil
}

func (c *Converter) writeContainer(path string, meta CaptureMetadata, capture Capture) (channels []Channel, err error) {
	container, err := c.create(path)
	if err != nil {
		return nil, &IOError{Op: "creating container", Path: path, Err: err}
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			err = errors.Join(err, &IOError{Op: "closing container", Path: path, Err: closeErr})
			channels = nil
		}
	}()

	if err := writeCaptureAttributes(container, meta); err != nil {
		return nil, &IOError{Op: "writing container", Path: path, Err: err}
	}

	for _, spec := range c.device.Channels() {
		raw, err := c.device.ExtractChannel(capture, spec)
		if err != nil {
			return nil, err
		}
		channel, err := c.device.Calibrate(spec, raw)
		if err != nil {
			return nil, err
		}
		if err := writeChannel(container, channel); err != nil {
			return nil, &IOError{Op: "writing container", Path: path, Err: err}
		}
		if c.config.Verbosity > 1 {
			c.logger.Info(fmt.Sprintf("Channel %s: %d samples, factor %g, offset %g",
				channel.Name, len(channel.Samples), channel.CalibrationFactor, channel.RemovedOffset.Value()), "converter")
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

// discard removes a temporary container left by a failed write. Removal is
// best effort.
func (c *Converter) discard(tmpPath string) {
	if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Error(fmt.Sprintf("error removing %s: %v", tmpPath, err))
	}
}

// afterPublish runs the optional steps that follow a published output.
// Their failures are logged, the conversion itself stays successful.
func (c *Converter) afterPublish(result *Result, channels []Channel) {
	if c.Catalog != nil {
		c.recordInCatalog(result)
	}

	if c.config.PreviewDir != "" {
		stem := strings.TrimSuffix(filepath.Base(result.OutputPath), OUTPUT_EXTENSION)
		path := filepath.Join(c.config.PreviewDir, stem+".png")
		if err := WritePreview(path, stem, c.frequency, channels, c.config.PreviewMaxPoints); err != nil {
			c.logger.Error(fmt.Sprintf("error writing preview: %v", err))
		}
	}

	if c.config.Gnuplot && c.Stdout != nil {
		if err := WriteTable(c.Stdout, c.device.Kind(), channels); err != nil {
			c.logger.Error(fmt.Sprintf("error writing table: %v", err))
		}
	}
}

func (c *Converter) recordInCatalog(result *Result) {
	meta := result.Metadata
	// Concurrent workers finish out of order, gaps are only meaningful
	// for a sequential batch. A repeated sequence is a re-conversion.
	if c.config.NumWorkers <= 1 {
		last, found, err := c.Catalog.LastSequence(meta.Name)
		if err != nil {
			c.logger.Error(err.Error())
		} else if found && meta.Sequence != last && meta.Sequence != last+1 {
			c.logger.Warn(fmt.Sprintf("Sequence of %s jumps from %d to %d", meta.Name, last, meta.Sequence), "catalog")
		}
	}

	record := CaptureRecord{
		RunID:          result.RunID,
		Device:         c.device.Kind().String(),
		Name:           meta.Name,
		Sequence:       int64(meta.Sequence),
		CaptureTime:    captureTime(meta),
		Frequency:      int64(meta.Frequency),
		Samples:        int64(result.Samples),
		FirstTriggerID: int64(meta.FirstTriggerID),
		LastTriggerID:  int64(meta.LastTriggerID),
		OutputPath:     result.OutputPath,
		ConvertedAt:    time.Now().UTC(),
	}
	if err := c.Catalog.Record(record); err != nil {
		c.logger.Error(err.Error())
	}
}

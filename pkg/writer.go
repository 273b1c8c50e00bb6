package converter

import (
	"errors"
	"fmt"
)

const (
	CALIBRATION_FACTOR_ATTR = "calibration_factor"
	REMOVED_OFFSET_ATTR     = "removed_offset"
)

type attribute struct {
	name  string
	value any
}

func captureAttributes(meta CaptureMetadata) []attribute {
	return []attribute{
		{"name", meta.Name},
		{"year", meta.Year},
		{"month", meta.Month},
		{"day", meta.Day},
		{"hours", meta.Hours},
		{"minutes", meta.Minutes},
		{"seconds", meta.Seconds},
		{"microseconds", meta.Microseconds},
		{"sequence", meta.Sequence},
		{"timezone", meta.Timezone},
		{"frequency", meta.Frequency},
		{"first_trigger_id", meta.FirstTriggerID},
		{"last_trigger_id", meta.LastTriggerID},
	}
}

func writeCaptureAttributes(c Container, meta CaptureMetadata) error {
	for _, attr := range captureAttributes(meta) {
		if err := c.WriteAttribute(attr.name, attr.value); err != nil {
			return fmt.Errorf("error writing attribute %s: %w", attr.name, err)
		}
	}
	return nil
}

func removedOffsetValue(offset RemovedOffset) any {
	if offset.Computed {
		return offset.Mean
	}
	return offset.Fixed
}

func writeChannel(c Container, channel Channel) (err error) {
	dset, err := c.CreateDataset(channel.Name, channel.Samples)
	if err != nil {
		return fmt.Errorf("error creating dataset %s: %w", channel.Name, err)
	}
	defer func() {
		if closeErr := dset.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("error closing dataset %s: %w", channel.Name, closeErr))
		}
	}()

	if err := dset.WriteAttribute(CALIBRATION_FACTOR_ATTR, channel.CalibrationFactor); err != nil {
		return fmt.Errorf("error writing %s of %s: %w", CALIBRATION_FACTOR_ATTR, channel.Name, err)
	}
	if err := dset.WriteAttribute(REMOVED_OFFSET_ATTR, removedOffsetValue(channel.RemovedOffset)); err != nil {
		return fmt.Errorf("error writing %s of %s: %w", REMOVED_OFFSET_ATTR, channel.Name, err)
	}
	return nil
}

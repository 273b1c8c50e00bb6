package converter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// CaptureMetadata is written as the top-level attributes of the output.
type CaptureMetadata struct {
	Name           string
	Year           uint32
	Month          uint32
	Day            uint32
	Hours          uint32
	Minutes        uint32
	Seconds        uint32
	Microseconds   uint32
	Timezone       string
	Sequence       uint64
	Frequency      uint64
	FirstTriggerID uint16
	LastTriggerID  uint16
}

// unit-2016-06-04T22-24-42.411571+0200-0000001.bin
var captureFilename = regexp.MustCompile(`^` +
	`(?P<name>.+)-` +
	`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2})` +
	`T(?P<hours>\d{2})-(?P<minutes>\d{2})-(?P<seconds>\d{2})\.(?P<microseconds>\d+)(?P<timezone>.+)-` +
	`(?P<sequence>\d+)` +
	`\.bin$`)

// ParseFilename extracts the capture name, start time and sequence number
// from the base name of path. Frequency and trigger ids are left unset.
func ParseFilename(path string) (CaptureMetadata, error) {
	base := filepath.Base(path)
	match := captureFilename.FindStringSubmatch(base)
	if match == nil {
		return CaptureMetadata{}, &NamingError{Filename: base}
	}

	fields := make(map[string]string, len(match))
	for i, name := range captureFilename.SubexpNames() {
		if name != "" {
			fields[name] = match[i]
		}
	}

	meta := CaptureMetadata{
		Name:     fields["name"],
		Timezone: fields["timezone"],
	}
	numbers := []struct {
		field string
		dest  *uint32
	}{
		{"year", &meta.Year},
		{"month", &meta.Month},
		{"day", &meta.Day},
		{"hours", &meta.Hours},
		{"minutes", &meta.Minutes},
		{"seconds", &meta.Seconds},
		{"microseconds", &meta.Microseconds},
	}
	for _, n := range numbers {
		value, err := strconv.ParseUint(fields[n.field], 10, 32)
		if err != nil {
			return CaptureMetadata{}, &NamingError{Filename: base, Reason: fmt.Sprintf("invalid %s: %v", n.field, err)}
		}
		*n.dest = uint32(value)
	}

	sequence, err := strconv.ParseUint(fields["sequence"], 10, 64)
	if err != nil {
		return CaptureMetadata{}, &NamingError{Filename: base, Reason: fmt.Sprintf("invalid sequence: %v", err)}
	}
	meta.Sequence = sequence
	return meta, nil
}

// FormatFilename builds the capture filename that ParseFilename maps back
// to meta.
func FormatFilename(meta CaptureMetadata) string {
	return fmt.Sprintf("%s-%04d-%02d-%02dT%02d-%02d-%02d.%06d%s-%07d.bin",
		meta.Name, meta.Year, meta.Month, meta.Day,
		meta.Hours, meta.Minutes, meta.Seconds, meta.Microseconds,
		meta.Timezone, meta.Sequence)
}

package converter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTable prints one whitespace separated line per sample, ready to be
// piped into gnuplot. Stored integers are printed as is, except for the
// microcontroller voltage which is printed in volts.
func WriteTable(w io.Writer, kind DeviceKind, channels []Channel) error {
	if len(channels) == 0 {
		return nil
	}
	out := bufio.NewWriter(w)
	samples := len(channels[0].Samples)
	for i := 0; i < samples; i++ {
		for j := range channels {
			if j > 0 {
				out.WriteByte(' ')
			}
			ch := &channels[j]
			if kind == MicroController && ch.Role == Voltage {
				out.WriteString(formatFloat(ch.Physical(i)))
			} else {
				out.WriteString(strconv.Itoa(int(ch.Samples[i])))
			}
		}
		if err := out.WriteByte('\n'); err != nil {
			return fmt.Errorf("error writing table: %w", err)
		}
	}
	return out.Flush()
}

// formatFloat prints the shortest representation of v, keeping a ".0" on
// integral values so that the column always reads as a float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

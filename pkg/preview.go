package converter

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// decimate returns the sample indexes drawn for a channel of n samples.
func decimate(n int, maxPoints int) []int {
	step := 1
	if maxPoints > 0 && n > maxPoints {
		step = (n + maxPoints - 1) / maxPoints
	}
	indexes := make([]int, 0, n/step+1)
	for i := 0; i < n; i += step {
		indexes = append(indexes, i)
	}
	return indexes
}

// WritePreview renders every channel in physical units to a PNG file.
// The x axis is the time in seconds since the first sample.
func WritePreview(path string, title string, frequency uint64, channels []Channel, maxPoints int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preview dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "A / V"
	p.X.Label.Text = "sample"
	if frequency > 0 {
		p.X.Label.Text = "s"
	}

	for i := range channels {
		ch := &channels[i]
		indexes := decimate(len(ch.Samples), maxPoints)
		pts := make(plotter.XYs, len(indexes))
		for j, idx := range indexes {
			x := float64(idx)
			if frequency > 0 {
				x /= float64(frequency)
			}
			pts[j] = plotter.XY{X: x, Y: ch.Physical(idx)}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to create line for %s: %w", ch.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(ch.Name, line)
	}

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save preview %s: %w", path, err)
	}
	return nil
}

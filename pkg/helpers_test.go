package converter

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
)

type recordingLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
}

func (l *recordingLogger) Info(message string, module string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) Warn(message string, module string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, message)
}

func (l *recordingLogger) Error(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, message)
}

type memoryDataset struct {
	Samples []int16
	Attrs   map[string]any
}

func (d *memoryDataset) WriteAttribute(name string, value any) error {
	d.Attrs[name] = value
	return nil
}

func (d *memoryDataset) Close() error { return nil }

// memoryContainer keeps everything in memory and leaves a placeholder file
// on disk so that the publish step has something to rename.
type memoryContainer struct {
	Path     string
	Attrs    map[string]any
	Datasets map[string]*memoryDataset
	Order    []string
	failOn   string
	closed   bool
}

func (m *memoryContainer) WriteAttribute(name string, value any) error {
	m.Attrs[name] = value
	return nil
}

func (m *memoryContainer) CreateDataset(name string, samples []int16) (Dataset, error) {
	if name == m.failOn {
		return nil, fmt.Errorf("disk full")
	}
	dset := &memoryDataset{Samples: append([]int16(nil), samples...), Attrs: map[string]any{}}
	m.Datasets[name] = dset
	m.Order = append(m.Order, name)
	return dset, nil
}

func (m *memoryContainer) Close() error {
	m.closed = true
	return os.WriteFile(m.Path, []byte("memory container"), 0644)
}

type memoryFactory struct {
	containers []*memoryContainer
	failOn     string
}

func (f *memoryFactory) create(path string) (Container, error) {
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return nil, err
	}
	c := &memoryContainer{
		Path:     path,
		Attrs:    map[string]any{},
		Datasets: map[string]*memoryDataset{},
		failOn:   f.failOn,
	}
	f.containers = append(f.containers, c)
	return c, nil
}

func microControllerBytes(trigger uint16, payload [PAYLOAD_BYTES]byte) []byte {
	b := binary.BigEndian.AppendUint16(nil, trigger)
	return append(b, payload[:]...)
}

func fpgaBytes(p FPGAPacket) []byte {
	b := binary.LittleEndian.AppendUint16(nil, p.Trigger)
	for _, v := range []int16{p.Voltage1, p.Current1, p.Voltage2, p.Current2, p.Voltage3, p.Current3} {
		b = binary.LittleEndian.AppendUint16(b, uint16(v))
	}
	return b
}

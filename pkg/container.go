package converter

// AttributeWriter stores a named scalar attribute. Values are one of
// string, uint16, uint32, uint64 or float64.
type AttributeWriter interface {
	WriteAttribute(name string, value any) error
}

// Dataset is a written channel that still accepts attributes.
type Dataset interface {
	AttributeWriter
	Close() error
}

// Container is the scientific output file. Compression and checksums are
// the responsibility of the implementation.
type Container interface {
	AttributeWriter
	CreateDataset(name string, samples []int16) (Dataset, error)
	Close() error
}

// ContainerFactory creates a new container at path, truncating it.
type ContainerFactory func(path string) (Container, error)

package hdf5writer

import (
	"errors"
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	converter "github.com/medal-daq/converter_go/pkg"
)

type Options struct {
	CompressionLevel int
	Shuffle          bool
	Checksum         bool
	ChunkSize        int
}

func OptionsFromConfiguration(config converter.Configuration) Options {
	return Options{
		CompressionLevel: config.CompressionLevel,
		Shuffle:          config.Shuffle,
		Checksum:         config.Checksum,
		ChunkSize:        config.ChunkSize,
	}
}

// File is a converter.Container backed by an HDF5 file. Capture
// attributes are attached to the root group, one 1D int16 dataset is
// created per channel.
type File struct {
	Filename string
	file     *hdf5.File
	root     *hdf5.Group
	options  Options
}

// Factory returns a converter.ContainerFactory creating HDF5 files.
func Factory(options Options) converter.ContainerFactory {
	return func(path string) (converter.Container, error) {
		return Create(path, options)
	}
}

func Create(filename string, options Options) (*File, error) {
	f, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	root, err := f.OpenGroup("/")
	if err != nil {
		f.Close()
		return nil, &ErrOpenGroup{GroupName: "/", Err: err}
	}
	return &File{Filename: filename, file: f, root: root, options: options}, nil
}

func (f *File) WriteAttribute(name string, value any) error {
	return writeAttribute(f.root, name, value)
}

func (f *File) CreateDataset(name string, samples []int16) (converter.Dataset, error) {
	dset, err := createArray(f.root, name, uint(len(samples)), f.options)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	if len(samples) > 0 {
		if err := dset.Write(&samples); err != nil {
			dset.Close()
			return nil, &ErrCreateDataset{DatasetName: name, Err: err}
		}
	}
	return &Dataset{dset: dset}, nil
}

func (f *File) Close() error {
	var errs []error
	if err := f.root.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing root group: %w", err))
	}
	if err := f.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Dataset is a channel dataset of an open File.
type Dataset struct {
	dset *hdf5.Dataset
}

func (d *Dataset) WriteAttribute(name string, value any) error {
	return writeAttribute(d.dset, name, value)
}

func (d *Dataset) Close() error {
	return d.dset.Close()
}

func createArray(group *hdf5.Group, name string, nSamples uint, options Options) (*hdf5.Dataset, error) {
	dims := []uint{nSamples}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return nil, err
	}
	defer fileSpace.Close()

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	defer plist.Close()

	// Filters need a chunked layout, which needs at least one sample
	if nSamples > 0 {
		chunk := uint(options.ChunkSize)
		if chunk == 0 || chunk > nSamples {
			chunk = nSamples
		}
		if err := plist.SetChunk([]uint{chunk}); err != nil {
			return nil, err
		}
		// Filter order matters: shuffle, deflate, checksum
		if options.Shuffle {
			if err := setShuffle(plist); err != nil {
				return nil, err
			}
		}
		if options.CompressionLevel > 0 {
			if err := plist.SetDeflate(options.CompressionLevel); err != nil {
				return nil, err
			}
		}
		if options.Checksum {
			if err := setFletcher32(plist); err != nil {
				return nil, err
			}
		}
	}

	return group.CreateDatasetWith(name, hdf5.T_NATIVE_INT16, fileSpace, plist)
}

type attributeHolder interface {
	CreateAttribute(name string, dtype *hdf5.Datatype, dspace *hdf5.Dataspace) (*hdf5.Attribute, error)
}

func writeAttribute(holder attributeHolder, name string, value any) error {
	dspace, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return &ErrWriteAttribute{AttributeName: name, Err: err}
	}
	defer dspace.Close()

	var dtype *hdf5.Datatype
	var data any
	switch v := value.(type) {
	case string:
		// Fixed length ASCII string, at least one byte long
		buf := []byte(v)
		if len(buf) == 0 {
			buf = []byte{0}
		}
		dtype, err = stringDatatype(len(buf))
		if err != nil {
			return &ErrWriteAttribute{AttributeName: name, Err: err}
		}
		defer dtype.Close()
		// Attribute.Write takes the address of the value, so pass the
		// first byte rather than the slice header
		data = &buf[0]
	case uint16:
		dtype, data = hdf5.T_NATIVE_UINT16, &v
	case uint32:
		dtype, data = hdf5.T_NATIVE_UINT32, &v
	case uint64:
		dtype, data = hdf5.T_NATIVE_UINT64, &v
	case float64:
		dtype, data = hdf5.T_NATIVE_DOUBLE, &v
	default:
		return &ErrWriteAttribute{AttributeName: name, Err: fmt.Errorf("unsupported type %T", value)}
	}

	attr, err := holder.CreateAttribute(name, dtype, dspace)
	if err != nil {
		return &ErrWriteAttribute{AttributeName: name, Err: err}
	}
	defer attr.Close()
	if err := attr.Write(data, dtype); err != nil {
		return &ErrWriteAttribute{AttributeName: name, Err: err}
	}
	return nil
}

func stringDatatype(size int) (*hdf5.Datatype, error) {
	dtype, err := hdf5.T_C_S1.Copy()
	if err != nil {
		return nil, err
	}
	if err := dtype.SetSize(size); err != nil {
		dtype.Close()
		return nil, err
	}
	return dtype, nil
}

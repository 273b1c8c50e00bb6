package hdf5writer

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error { return e.Err }

// ErrOpenGroup represents an error when opening a group.
type ErrOpenGroup struct {
	GroupName string
	Err       error
}

func (e *ErrOpenGroup) Error() string {
	return fmt.Sprintf("error opening group %q: %v", e.GroupName, e.Err)
}

func (e *ErrOpenGroup) Unwrap() error { return e.Err }

// ErrCreateDataset represents an error when creating or filling a dataset.
type ErrCreateDataset struct {
	DatasetName string
	Err         error
}

func (e *ErrCreateDataset) Error() string {
	return fmt.Sprintf("error creating dataset %q: %v", e.DatasetName, e.Err)
}

func (e *ErrCreateDataset) Unwrap() error { return e.Err }

// ErrWriteAttribute represents an error when writing an attribute.
type ErrWriteAttribute struct {
	AttributeName string
	Err           error
}

func (e *ErrWriteAttribute) Error() string {
	return fmt.Sprintf("error writing attribute %q: %v", e.AttributeName, e.Err)
}

func (e *ErrWriteAttribute) Unwrap() error { return e.Err }

package hdf5writer

// #cgo LDFLAGS: -lhdf5
// #include <hdf5.h>
import "C"

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// The go-hdf5 bindings only expose deflate, the byte shuffle and the
// Fletcher-32 checksum filters are set on the raw property list id.

func setShuffle(plist *hdf5.PropList) error {
	if rc := C.H5Pset_shuffle(C.hid_t(plist.ID())); rc < 0 {
		return fmt.Errorf("H5Pset_shuffle failed with %d", int(rc))
	}
	return nil
}

func setFletcher32(plist *hdf5.PropList) error {
	if rc := C.H5Pset_fletcher32(C.hid_t(plist.ID())); rc < 0 {
		return fmt.Errorf("H5Pset_fletcher32 failed with %d", int(rc))
	}
	return nil
}

var (
	filterDeflate    = int(C.H5Z_FILTER_DEFLATE)
	filterShuffle    = int(C.H5Z_FILTER_SHUFFLE)
	filterFletcher32 = int(C.H5Z_FILTER_FLETCHER32)
)

// datasetFilters returns the filter pipeline of dset, in application order.
func datasetFilters(dset *hdf5.Dataset) ([]int, error) {
	plist := C.H5Dget_create_plist(C.hid_t(dset.ID()))
	if plist < 0 {
		return nil, fmt.Errorf("H5Dget_create_plist failed with %d", int(plist))
	}
	defer C.H5Pclose(plist)

	n := C.H5Pget_nfilters(plist)
	if n < 0 {
		return nil, fmt.Errorf("H5Pget_nfilters failed with %d", int(n))
	}
	filters := make([]int, 0, int(n))
	for i := 0; i < int(n); i++ {
		var flags C.uint
		var nelmts C.size_t
		filter := C.H5Pget_filter2(plist, C.uint(i), &flags, &nelmts, nil, 0, nil, nil)
		if filter < 0 {
			return nil, fmt.Errorf("H5Pget_filter2 failed with %d", int(filter))
		}
		filters = append(filters, int(filter))
	}
	return filters, nil
}

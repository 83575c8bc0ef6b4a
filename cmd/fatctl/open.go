package fatctl

import (
	"github.com/example-os/fatvol/fat"
	"github.com/example-os/fatvol/volume"
)

// openedVolume bundles a memory-mapped image with its decoded header,
// and must be closed once the caller is done with it.
type openedVolume struct {
	mapping *volume.Mapping
	header  *fat.Header
}

func openVolume(path string, skipChecks bool) (*openedVolume, error) {
	mapping, err := volume.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := fat.ParseHeader(mapping.Data, skipChecks)
	if err != nil {
		mapping.Close()
		return nil, err
	}

	return &openedVolume{mapping: mapping, header: header}, nil
}

func (v *openedVolume) Close() error {
	return v.mapping.Close()
}

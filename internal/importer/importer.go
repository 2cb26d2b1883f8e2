package importer

import (
	"io"

	"github.com/mwhardin/probata/internal/asset"
)

type Format string

const (
	FormatInventory Format = "inventory"
)

type Importer interface {
	Parse(r io.Reader) ([]asset.CreateParams, error)
}

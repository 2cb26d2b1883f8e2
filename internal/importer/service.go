package importer

import (
	"fmt"
	"io"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/importer/inventory"
)

type Service struct {
	inventoryImporter Importer
}

func NewService() *Service {
	return &Service{
		inventoryImporter: inventory.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]asset.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatInventory:
		importer = s.inventoryImporter
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return importer.Parse(r)
}

package repositories

import "github.com/agriplan/procure/pkg/domain/entities"

// CatalogRepository provides access to product master, vendor, offering,
// and commodity spec data
type CatalogRepository interface {
	GetProduct(id string) (*entities.Product, error)
	GetAllProducts() ([]*entities.Product, error)
	GetSpec(id string) (*entities.CommoditySpec, error)
	GetAllSpecs() ([]*entities.CommoditySpec, error)
	GetVendor(id string) (*entities.Vendor, error)
	GetAllVendors() ([]*entities.Vendor, error)

	// GetOfferings returns a product's vendor offerings in insertion order,
	// which is the tie-break order for preferred-offering resolution.
	GetOfferings(productID string) ([]*entities.VendorOffering, error)

	LoadProducts(products []*entities.Product) error
	LoadSpecs(specs []*entities.CommoditySpec) error
	LoadVendors(vendors []*entities.Vendor) error
	LoadOfferings(offerings []*entities.VendorOffering) error
}

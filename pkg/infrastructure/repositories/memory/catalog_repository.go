package memory

import (
	"fmt"

	"github.com/agriplan/procure/pkg/domain/entities"
	"github.com/agriplan/procure/pkg/domain/repositories"
)

// CatalogRepository provides in-memory catalog storage
type CatalogRepository struct {
	products  map[string]*entities.Product
	specs     map[string]*entities.CommoditySpec
	vendors   map[string]*entities.Vendor
	offerings map[string][]*entities.VendorOffering

	productOrder []string
	specOrder    []string
	vendorOrder  []string
}

// NewCatalogRepository creates a new in-memory catalog repository
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products:  make(map[string]*entities.Product),
		specs:     make(map[string]*entities.CommoditySpec),
		vendors:   make(map[string]*entities.Vendor),
		offerings: make(map[string][]*entities.VendorOffering),
	}
}

// Verify interface compliance
var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// LoadProducts loads product master records into the repository
func (r *CatalogRepository) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		if _, exists := r.products[product.ID]; !exists {
			r.productOrder = append(r.productOrder, product.ID)
		}
		r.products[product.ID] = product
	}
	return nil
}

// LoadSpecs loads commodity specs into the repository
func (r *CatalogRepository) LoadSpecs(specs []*entities.CommoditySpec) error {
	for _, spec := range specs {
		if _, exists := r.specs[spec.ID]; !exists {
			r.specOrder = append(r.specOrder, spec.ID)
		}
		r.specs[spec.ID] = spec
	}
	return nil
}

// LoadVendors loads vendors into the repository
func (r *CatalogRepository) LoadVendors(vendors []*entities.Vendor) error {
	for _, vendor := range vendors {
		if _, exists := r.vendors[vendor.ID]; !exists {
			r.vendorOrder = append(r.vendorOrder, vendor.ID)
		}
		r.vendors[vendor.ID] = vendor
	}
	return nil
}

// LoadOfferings loads vendor offerings, preserving insertion order per
// product for preferred-offering tie-breaking
func (r *CatalogRepository) LoadOfferings(offerings []*entities.VendorOffering) error {
	for _, offering := range offerings {
		r.offerings[offering.ProductID] = append(r.offerings[offering.ProductID], offering)
	}
	return nil
}

// GetProduct returns the product with the given id
func (r *CatalogRepository) GetProduct(id string) (*entities.Product, error) {
	product, exists := r.products[id]
	if !exists {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	return product, nil
}

// GetAllProducts returns all products in load order
func (r *CatalogRepository) GetAllProducts() ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(r.productOrder))
	for _, id := range r.productOrder {
		products = append(products, r.products[id])
	}
	return products, nil
}

// GetSpec returns the commodity spec with the given id
func (r *CatalogRepository) GetSpec(id string) (*entities.CommoditySpec, error) {
	spec, exists := r.specs[id]
	if !exists {
		return nil, fmt.Errorf("commodity spec not found: %s", id)
	}
	return spec, nil
}

// GetAllSpecs returns all commodity specs in load order
func (r *CatalogRepository) GetAllSpecs() ([]*entities.CommoditySpec, error) {
	specs := make([]*entities.CommoditySpec, 0, len(r.specOrder))
	for _, id := range r.specOrder {
		specs = append(specs, r.specs[id])
	}
	return specs, nil
}

// GetVendor returns the vendor with the given id
func (r *CatalogRepository) GetVendor(id string) (*entities.Vendor, error) {
	vendor, exists := r.vendors[id]
	if !exists {
		return nil, fmt.Errorf("vendor not found: %s", id)
	}
	return vendor, nil
}

// GetAllVendors returns all vendors in load order
func (r *CatalogRepository) GetAllVendors() ([]*entities.Vendor, error) {
	vendors := make([]*entities.Vendor, 0, len(r.vendorOrder))
	for _, id := range r.vendorOrder {
		vendors = append(vendors, r.vendors[id])
	}
	return vendors, nil
}

// GetOfferings returns a product's offerings in insertion order
func (r *CatalogRepository) GetOfferings(productID string) ([]*entities.VendorOffering, error) {
	return r.offerings[productID], nil
}

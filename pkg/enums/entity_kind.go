package enums

// EntityKind names an authoritative entity whose changes feed the index.
type EntityKind string

const (
	EntityKindProduct   EntityKind = "product"
	EntityKindCustomer  EntityKind = "customer"
	EntityKindSupplier  EntityKind = "supplier"
	EntityKindCategory  EntityKind = "category"
	EntityKindLocation  EntityKind = "location"
	EntityKindInventory EntityKind = "inventory"
)

var validEntityKinds = []EntityKind{
	EntityKindProduct,
	EntityKindCustomer,
	EntityKindSupplier,
	EntityKindCategory,
	EntityKindLocation,
	EntityKindInventory,
}

func (k EntityKind) IsValid() bool {
	for _, candidate := range validEntityKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

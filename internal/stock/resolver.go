// Package stock computes derived availability state from raw inventory
// figures. It is the single authority for the low-stock flag; callers must
// not recompute it locally.
package stock

// Availability is the derived state for one inventory row.
type Availability struct {
	Available  int
	IsLowStock bool
}

// Resolve derives availability from on-hand quantity, reserved quantity and
// the reorder threshold. Available is reported exactly, never clamped: a
// negative value signals an oversell window the authoritative store will
// reconcile. Low stock depends only on on-hand quantity so reservations
// cannot mask a genuine alert.
func Resolve(quantity, reserved, reorderPoint int) Availability {
	return Availability{
		Available:  quantity - reserved,
		IsLowStock: quantity <= reorderPoint,
	}
}

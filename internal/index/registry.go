package index

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

// Collection names the four index collections this layer owns.
type Collection string

const (
	CollectionProducts  Collection = "products"
	CollectionCustomers Collection = "customers"
	CollectionSuppliers Collection = "suppliers"
	CollectionInventory Collection = "inventory"
)

// Collections returns all known collections in a stable order.
func Collections() []Collection {
	return []Collection{CollectionProducts, CollectionCustomers, CollectionSuppliers, CollectionInventory}
}

// IsCollection reports whether name identifies a known collection.
func IsCollection(name string) bool {
	switch Collection(name) {
	case CollectionProducts, CollectionCustomers, CollectionSuppliers, CollectionInventory:
		return true
	}
	return false
}

// FieldType is the declared wire type of an index record field.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeInt        FieldType = "int"
	TypeBool       FieldType = "bool"
	TypeDecimal    FieldType = "decimal"
	TypeStringList FieldType = "string_list"
	TypeStringMap  FieldType = "string_map"
	TypeTime       FieldType = "time"
)

// FieldSpec declares one field of an index record shape.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Required    bool
	Facet       bool
	Searchable  bool
	NonNegative bool
}

var fieldsByCollection = map[Collection][]FieldSpec{
	CollectionProducts: {
		{Name: "objectID", Type: TypeString, Required: true},
		{Name: "name", Type: TypeString, Required: true, Searchable: true},
		{Name: "description", Type: TypeString, Searchable: true},
		{Name: "sku", Type: TypeString, Required: true, Searchable: true},
		{Name: "barcode", Type: TypeString, Searchable: true},
		{Name: "category_id", Type: TypeString, Facet: true},
		{Name: "category_name", Type: TypeString, Facet: true, Searchable: true},
		{Name: "supplier_id", Type: TypeString, Facet: true},
		{Name: "supplier_name", Type: TypeString, Facet: true, Searchable: true},
		{Name: "cost_price", Type: TypeDecimal, Required: true},
		{Name: "selling_price", Type: TypeDecimal, Required: true},
		{Name: "tags", Type: TypeStringList, Facet: true, Searchable: true},
		{Name: "is_active", Type: TypeBool, Required: true, Facet: true},
		{Name: "has_variants", Type: TypeBool, Required: true, Facet: true},
		{Name: "image_url", Type: TypeString},
		{Name: "created_at", Type: TypeTime, Required: true},
		{Name: "updated_at", Type: TypeTime, Required: true},
	},
	CollectionCustomers: {
		{Name: "objectID", Type: TypeString, Required: true},
		{Name: "first_name", Type: TypeString, Required: true, Searchable: true},
		{Name: "last_name", Type: TypeString, Required: true, Searchable: true},
		{Name: "full_name", Type: TypeString, Required: true, Searchable: true},
		{Name: "email", Type: TypeString, Searchable: true},
		{Name: "phone", Type: TypeString, Searchable: true},
		{Name: "city", Type: TypeString, Facet: true, Searchable: true},
		{Name: "total_orders", Type: TypeInt, Required: true, NonNegative: true},
		{Name: "total_spent", Type: TypeDecimal, Required: true},
		{Name: "loyalty_points", Type: TypeInt, Required: true, NonNegative: true},
		{Name: "is_active", Type: TypeBool, Required: true, Facet: true},
		{Name: "created_at", Type: TypeTime, Required: true},
	},
	CollectionSuppliers: {
		{Name: "objectID", Type: TypeString, Required: true},
		{Name: "name", Type: TypeString, Required: true, Searchable: true},
		{Name: "contact_person", Type: TypeString, Searchable: true},
		{Name: "email", Type: TypeString, Searchable: true},
		{Name: "phone", Type: TypeString, Searchable: true},
		{Name: "address", Type: TypeString, Searchable: true},
		{Name: "payment_terms", Type: TypeString, Facet: true},
		{Name: "lead_time_days", Type: TypeInt, NonNegative: true},
		{Name: "is_active", Type: TypeBool, Required: true, Facet: true},
		{Name: "created_at", Type: TypeTime, Required: true},
	},
	CollectionInventory: {
		{Name: "objectID", Type: TypeString, Required: true},
		{Name: "product_id", Type: TypeString, Required: true, Facet: true},
		{Name: "product_name", Type: TypeString, Required: true, Searchable: true},
		{Name: "sku", Type: TypeString, Required: true, Searchable: true},
		{Name: "barcode", Type: TypeString, Searchable: true},
		{Name: "variant_id", Type: TypeString},
		{Name: "variant_sku", Type: TypeString, Searchable: true},
		{Name: "variant_options", Type: TypeStringMap},
		{Name: "location_id", Type: TypeString, Required: true, Facet: true},
		{Name: "location_name", Type: TypeString, Required: true, Facet: true, Searchable: true},
		{Name: "quantity", Type: TypeInt, Required: true, NonNegative: true},
		{Name: "reserved_quantity", Type: TypeInt, Required: true, NonNegative: true},
		{Name: "reorder_point", Type: TypeInt, Required: true, NonNegative: true},
		{Name: "available", Type: TypeInt, Required: true},
		{Name: "is_low_stock", Type: TypeBool, Required: true, Facet: true},
		{Name: "updated_at", Type: TypeTime, Required: true},
	},
}

// Fields returns the field specs for a collection in declaration order.
func Fields(collection Collection) ([]FieldSpec, error) {
	specs, ok := fieldsByCollection[collection]
	if !ok {
		return nil, errors.New(errors.CodeInvalidArgument, fmt.Sprintf("unknown collection %q", collection))
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out, nil
}

// FacetAttributes returns the attribute names refinements may target,
// sorted for stable iteration.
func FacetAttributes(collection Collection) []string {
	var names []string
	for _, spec := range fieldsByCollection[collection] {
		if spec.Facet {
			names = append(names, spec.Name)
		}
	}
	sort.Strings(names)
	return names
}

// SearchableAttributes returns the attribute names free-text queries match
// against, in declaration order.
func SearchableAttributes(collection Collection) []string {
	var names []string
	for _, spec := range fieldsByCollection[collection] {
		if spec.Searchable {
			names = append(names, spec.Name)
		}
	}
	return names
}

// IsFacetAttribute reports whether attribute is a declared facet of the
// collection.
func IsFacetAttribute(collection Collection, attribute string) bool {
	for _, spec := range fieldsByCollection[collection] {
		if spec.Name == attribute {
			return spec.Facet
		}
	}
	return false
}

// Validate checks a decoded record against its collection schema. It returns
// a SCHEMA_VIOLATION error naming every offending field at once so operators
// see the full shape problem in a single journal entry.
func Validate(collection Collection, record map[string]any) error {
	specs, ok := fieldsByCollection[collection]
	if !ok {
		return errors.New(errors.CodeInvalidArgument, fmt.Sprintf("unknown collection %q", collection))
	}

	var problems []string
	for _, spec := range specs {
		value, present := record[spec.Name]
		if !present || value == nil {
			if spec.Required {
				problems = append(problems, fmt.Sprintf("%s: required field missing", spec.Name))
			}
			continue
		}
		if err := checkType(spec, value); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", spec.Name, err))
		}
	}
	if len(problems) > 0 {
		return errors.New(errors.CodeSchemaViolation,
			fmt.Sprintf("record fails %s schema", collection)).WithDetails(problems)
	}
	return nil
}

func checkType(spec FieldSpec, value any) error {
	switch spec.Type {
	case TypeString:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		if spec.Required && str == "" {
			return fmt.Errorf("required string is empty")
		}
	case TypeInt:
		n, err := asInt(value)
		if err != nil {
			return err
		}
		if spec.NonNegative && n < 0 {
			return fmt.Errorf("expected non-negative integer, got %d", n)
		}
	case TypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
	case TypeDecimal:
		if err := asDecimal(value); err != nil {
			return err
		}
	case TypeStringList:
		if err := asStringList(value); err != nil {
			return err
		}
	case TypeStringMap:
		if err := asStringMap(value); err != nil {
			return err
		}
	case TypeTime:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected RFC3339 timestamp string, got %T", value)
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			return fmt.Errorf("invalid timestamp %q", str)
		}
	default:
		return fmt.Errorf("unhandled field type %q", spec.Type)
	}
	return nil
}

// asInt accepts the numeric shapes JSON decoding can produce. Floats must be
// whole numbers.
func asInt(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got %v", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}

// asDecimal accepts both the quoted-string form decimal.Decimal marshals to
// and a plain JSON number.
func asDecimal(value any) error {
	switch v := value.(type) {
	case string:
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid decimal %q", v)
		}
		return nil
	case float64:
		return nil
	case decimal.Decimal:
		return nil
	default:
		return fmt.Errorf("expected decimal string or number, got %T", value)
	}
}

func asStringList(value any) error {
	switch v := value.(type) {
	case []string:
		return nil
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("expected string list, found %T element", item)
			}
		}
		return nil
	default:
		return fmt.Errorf("expected string list, got %T", value)
	}
}

func asStringMap(value any) error {
	switch v := value.(type) {
	case map[string]string:
		return nil
	case map[string]any:
		for key, item := range v {
			if _, ok := item.(string); !ok {
				return fmt.Errorf("expected string map, found %T value for %q", item, key)
			}
		}
		return nil
	default:
		return fmt.Errorf("expected string map, got %T", value)
	}
}

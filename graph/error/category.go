package grapherror

// Category represents the main error category for editor operations
type Category string

const (
	// CategoryDuplicate indicates an id, key or edge collision
	CategoryDuplicate Category = "duplicate"

	// CategoryNotFound indicates an operation referenced a missing node
	CategoryNotFound Category = "not_found"

	// CategoryInput indicates malformed user input (numbers, enum names, empty keys)
	CategoryInput Category = "input"

	// CategoryIntegrity indicates a broken graph invariant (a bug, not user error)
	CategoryIntegrity Category = "integrity"

	// CategoryStorage indicates tree persistence or import/export failures
	CategoryStorage Category = "storage"

	// CategoryInternal indicates anything else
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Duplicate subcategories
const (
	SubcategoryDuplicateID   = "id"
	SubcategoryDuplicateKey  = "key"
	SubcategoryDuplicateEdge = "edge"
)

// Input subcategories
const (
	SubcategoryInputNumber = "number"
	SubcategoryInputKey    = "key"
	SubcategoryInputValue  = "value"
)

package grapherror

import (
	"time"

	"github.com/teranos/skilltree/errors"
)

// GraphError represents an editor error with structured context
type GraphError struct {
	Err         error                  // Underlying error
	Category    Category               // Main category
	Subcategory string                 // Optional subcategory
	UserMessage string                 // User-friendly message for console display
	Context     map[string]interface{} // Additional context for debugging
	Timestamp   time.Time              // When the error occurred
}

// Error implements the error interface
func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

// Unwrap returns the underlying error for errors.Is/As compatibility
func (e *GraphError) Unwrap() error {
	return e.Err
}

// New creates a new GraphError with the specified category and messages
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Classify wraps err in a GraphError whose category is derived from the
// sentinel it carries. A GraphError is returned unchanged; nil stays nil.
func Classify(err error) *GraphError {
	if err == nil {
		return nil
	}
	var ge *GraphError
	if errors.As(err, &ge) {
		return ge
	}

	category, sub := CategoryInternal, ""
	switch {
	case errors.Is(err, errors.ErrDuplicateID):
		category, sub = CategoryDuplicate, SubcategoryDuplicateID
	case errors.Is(err, errors.ErrDuplicateKey):
		category, sub = CategoryDuplicate, SubcategoryDuplicateKey
	case errors.Is(err, errors.ErrDuplicateEdge):
		category, sub = CategoryDuplicate, SubcategoryDuplicateEdge
	case errors.Is(err, errors.ErrNotFound):
		category = CategoryNotFound
	case errors.Is(err, errors.ErrMalformedNumber):
		category, sub = CategoryInput, SubcategoryInputNumber
	case errors.Is(err, errors.ErrInvalidKey):
		category, sub = CategoryInput, SubcategoryInputKey
	case errors.Is(err, errors.ErrInvalidRequest):
		category, sub = CategoryInput, SubcategoryInputValue
	case errors.Is(err, errors.ErrReferentialViolation), errors.HasAssertionFailure(err):
		category = CategoryIntegrity
	}

	ge = New(category, err, "")
	ge.Subcategory = sub
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		ge.UserMessage = hints[0]
	}
	return ge
}

// WithSubcategory adds a subcategory to the error
func (e *GraphError) WithSubcategory(sub string) *GraphError {
	e.Subcategory = sub
	return e
}

// WithContext adds a context key-value pair for debugging
func (e *GraphError) WithContext(key string, value interface{}) *GraphError {
	e.Context[key] = value
	return e
}

// ToLogFields converts error to structured log fields
// This is useful for passing to logger.Errorw()
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_message", e.Error(),
	}

	if e.Subcategory != "" {
		fields = append(fields, "error_subcategory", e.Subcategory)
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// IsCategory checks if the error matches a specific category
func (e *GraphError) IsCategory(cat Category) bool {
	return e.Category == cat
}

// IsUserError reports whether the error stems from user input rather than a
// bug or an environment failure. User errors are shown, not logged as errors.
func (e *GraphError) IsUserError() bool {
	switch e.Category {
	case CategoryDuplicate, CategoryNotFound, CategoryInput:
		return true
	}
	return false
}

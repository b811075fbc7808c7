package grapherror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/skilltree/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category Category
		sub      string
		user     bool
	}{
		{"duplicate id", errors.Wrap(errors.ErrDuplicateID, "rename"), CategoryDuplicate, SubcategoryDuplicateID, true},
		{"duplicate key", errors.ErrDuplicateKey, CategoryDuplicate, SubcategoryDuplicateKey, true},
		{"duplicate edge", errors.ErrDuplicateEdge, CategoryDuplicate, SubcategoryDuplicateEdge, true},
		{"node not found", errors.Wrapf(errors.ErrNodeNotFound, "%q", "x"), CategoryNotFound, "", true},
		{"malformed number", errors.ErrMalformedNumber, CategoryInput, SubcategoryInputNumber, true},
		{"invalid key", errors.ErrInvalidKey, CategoryInput, SubcategoryInputKey, true},
		{"invalid request", errors.NewInvalidRequestError("bad shape"), CategoryInput, SubcategoryInputValue, true},
		{"referential violation", errors.Wrap(errors.ErrReferentialViolation, "dangling"), CategoryIntegrity, "", false},
		{"assertion", errors.AssertionFailedf("broken"), CategoryIntegrity, "", false},
		{"anything else", errors.New("disk on fire"), CategoryInternal, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ge := Classify(tt.err)
			require.NotNil(t, ge)
			assert.Equal(t, tt.category, ge.Category)
			assert.Equal(t, tt.sub, ge.Subcategory)
			assert.Equal(t, tt.user, ge.IsUserError())
			assert.True(t, errors.Is(ge, tt.err), "classified error must still unwrap to its cause")
		})
	}
}

func TestClassifyNilAndPassthrough(t *testing.T) {
	assert.Nil(t, Classify(nil))

	ge := New(CategoryStorage, errors.New("locked"), "database is locked")
	assert.Same(t, ge, Classify(errors.Wrap(ge, "save")))
}

func TestClassifyUsesHintAsUserMessage(t *testing.T) {
	err := errors.WithHint(errors.NewInvalidRequestError("unknown role %q", "boss"), "roles are: normal, base")

	assert.Equal(t, "roles are: normal, base", Classify(err).ToUIMessage())
}

func TestToLogFields(t *testing.T) {
	ge := New(CategoryDuplicate, errors.ErrDuplicateKey, "").
		WithSubcategory(SubcategoryDuplicateKey).
		WithContext("node_id", "a")

	fields := ge.ToLogFields()

	assert.Contains(t, fields, "error_category")
	assert.Contains(t, fields, "error_subcategory")
	assert.Contains(t, fields, "node_id")
	assert.True(t, ge.IsCategory(CategoryDuplicate))
}

package grapherror

import "fmt"

// defaultMessages provides user-friendly error messages for each category
var defaultMessages = map[Category]string{
	CategoryDuplicate: "That name is already taken - the edit was reverted",
	CategoryNotFound:  "No such node in this tree",
	CategoryInput:     "Invalid input - the previous value was kept",
	CategoryIntegrity: "The tree is inconsistent - please report this",
	CategoryStorage:   "Could not read or write the tree",
	CategoryInternal:  "An internal error occurred",
}

// subcategoryMessages refine the default message where a subcategory is known
var subcategoryMessages = map[string]string{
	CategoryDuplicate.String() + "/" + SubcategoryDuplicateID:   "ID already exists!",
	CategoryDuplicate.String() + "/" + SubcategoryDuplicateKey:  "Key already exists.",
	CategoryDuplicate.String() + "/" + SubcategoryDuplicateEdge: "Those nodes are already linked",
	CategoryInput.String() + "/" + SubcategoryInputNumber:       "Not a number - the previous value was kept",
}

// ToUIMessage converts the error to a user-friendly message suitable for display
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if msg, ok := subcategoryMessages[e.Category.String()+"/"+e.Subcategory]; ok {
		return msg
	}
	if msg, ok := defaultMessages[e.Category]; ok {
		return msg
	}
	return "An error occurred"
}

// ToMeta formats the error for machine-readable console output
func (e *GraphError) ToMeta() map[string]string {
	meta := map[string]string{
		"error":       e.Error(),
		"category":    string(e.Category),
		"description": e.ToUIMessage(),
		"timestamp":   e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
	}

	if e.Subcategory != "" {
		meta["subcategory"] = e.Subcategory
	}

	if len(e.Context) > 0 {
		meta["context"] = fmt.Sprintf("%v", e.Context)
	}

	return meta
}

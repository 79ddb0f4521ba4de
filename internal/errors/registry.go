package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (W100-W199)
	// ============================================

	"W101": {
		Category: CategoryRuntime,
		Message:  "Invalid mutation target",
		Detail:   "Children can only be mounted into element or document fragment nodes.",
	},
	"W102": {
		Category: CategoryRuntime,
		Message:  "Reconciliation failed",
		Detail:   "The host tree rejected a mutation while synchronizing a child slot. This usually means nodes owned by the renderer were moved or removed by other code.",
	},
	"W103": {
		Category: CategoryDOM,
		Message:  "Node not found",
		Detail:   "The reference node is not a child of this parent.",
	},
	"W104": {
		Category: CategoryDOM,
		Message:  "Hierarchy request error",
		Detail:   "The node cannot be inserted at this position of the tree.",
	},
	"W105": {
		Category: CategoryRuntime,
		Message:  "Circular dependency detected",
		Detail:   "An effect keeps writing a signal it reads, so it never settles. Move the write into an event handler or read the signal with Peek.",
	},

	// ============================================
	// Config Errors (W200-W299)
	// ============================================

	"W201": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "woby.json could not be read or failed validation.",
	},

	// ============================================
	// CLI Errors (W300-W399)
	// ============================================

	"W301": {
		Category: CategoryCLI,
		Message:  "Snapshot upload failed",
		Detail:   "The rendered snapshot could not be written to its destination.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

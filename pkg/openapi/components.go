package openapi

// NewComponents creates Components with the shared page request schema
// and the JSON error responses every handler can return.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: -created_at"},
				},
			},
		},
		Responses: make(map[string]*Response),
	}

	errors := map[string]string{
		"BadRequest":         "Invalid request",
		"Unauthorized":       "Missing or invalid bearer token",
		"NotFound":           "Resource not found",
		"Conflict":           "Resource conflict",
		"ServerError":        "Internal error",
		"ServiceUnavailable": "Dependency unavailable",
	}
	for name, desc := range errors {
		c.Responses[name] = ResponseJSON(desc, "Error")
	}

	return c
}

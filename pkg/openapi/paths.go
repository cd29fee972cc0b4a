package openapi

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/redress/pkg/routes"
)

// AddRoutes documents every endpoint in groups. Path parameters are read
// from {name} segments.
func (s *Spec) AddRoutes(groups ...routes.Group) {
	routes.Walk(groups, func(e routes.Endpoint) {
		item, ok := s.Paths[e.Path]
		if !ok {
			item = &PathItem{}
			s.Paths[e.Path] = item
		}

		s.addTag(e.Tag)
		op := newOperation(e)
		switch e.Method {
		case http.MethodGet:
			item.Get = op
		case http.MethodPost:
			item.Post = op
		case http.MethodPut:
			item.Put = op
		case http.MethodDelete:
			item.Delete = op
		}
	})
}

func newOperation(e routes.Endpoint) *Operation {
	op := &Operation{
		Summary:    e.Summary,
		Parameters: pathParams(e.Path),
		Responses: map[int]*Response{
			http.StatusBadRequest:          ResponseRef("BadRequest"),
			http.StatusUnauthorized:        ResponseRef("Unauthorized"),
			http.StatusInternalServerError: ResponseRef("ServerError"),
		},
	}
	if e.Tag != "" {
		op.Tags = []string{e.Tag}
	}

	switch e.Method {
	case http.MethodPost:
		op.Responses[http.StatusOK] = &Response{Description: "Success"}
		op.RequestBody = &RequestBody{
			Content: map[string]*MediaType{
				"application/json": {Schema: &Schema{Type: "object"}},
			},
		}
	case http.MethodDelete:
		op.Responses[http.StatusNoContent] = &Response{Description: "Deleted"}
	default:
		op.Responses[http.StatusOK] = &Response{Description: "Success"}
	}

	if len(op.Parameters) > 0 {
		op.Responses[http.StatusNotFound] = ResponseRef("NotFound")
	}

	return op
}

func pathParams(path string) []*Parameter {
	var params []*Parameter
	for seg := range strings.SplitSeq(path, "/") {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")

		switch name {
		case "id":
			params = append(params, PathParam(name, "Resource ID"))
		case "round":
			params = append(params, &Parameter{
				Name: name, In: "path", Required: true,
				Description: "Follow-up round number",
				Schema:      &Schema{Type: "integer"},
			})
		default:
			params = append(params, &Parameter{
				Name: name, In: "path", Required: true,
				Schema: &Schema{Type: "string"},
			})
		}
	}
	return params
}

package server

import (
	"fmt"
	"net/http"

	"github.com/patrickkwang/bmt-lite/errors"
	"github.com/patrickkwang/bmt-lite/taxonomy"
	"github.com/patrickkwang/bmt-lite/version"
)

// handleHealth reports service status and the loaded model
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Version:     version.Get().Version,
		Fingerprint: s.Fingerprint(),
		Elements:    s.Toolkit().Len(),
		Clients:     s.clientCount(),
		State:       stateString(s.getState()),
	})
}

// handleElement serves /api/elements/{name} and the facet routes below
// it: parent, children, ancestors, descendants, edge-label, category.
// Element names with spaces arrive percent-encoded; r.URL.Path has
// already decoded them.
func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	parts := extractPathParts(r.URL.Path, "/api/elements/")
	name := parts[0]
	if name == "" {
		writeError(w, http.StatusNotFound, "element name required")
		return
	}

	tk := s.Toolkit()

	switch len(parts) {
	case 1:
		el := tk.Element(name)
		if el == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("element %q not found", name))
			return
		}
		writeJSON(w, http.StatusOK, el.Document())
	case 2:
		s.handleElementFacet(w, tk, name, parts[1])
	default:
		writeError(w, http.StatusNotFound, "unknown element route")
	}
}

// handleElementFacet answers the per-facet element routes. Facets keep
// the toolkit's total-query semantics rather than mapping absence to
// 404: children and category checks carry meaning even for names the
// model never defines.
func (s *Server) handleElementFacet(w http.ResponseWriter, tk *taxonomy.Toolkit, name, facet string) {
	switch facet {
	case "parent":
		parent, defined := tk.Parent(name)
		writeJSON(w, http.StatusOK, ParentResponse{Name: name, Parent: parent, Defined: defined})
	case "children":
		writeJSON(w, http.StatusOK, ChildrenResponse{Name: name, Children: nonNil(tk.Children(name))})
	case "ancestors":
		writeJSON(w, http.StatusOK, AncestorsResponse{Name: name, Ancestors: nonNil(tk.Ancestors(name))})
	case "descendants":
		writeJSON(w, http.StatusOK, DescendantsResponse{Name: name, Descendants: nonNil(tk.Descendants(name))})
	case "edge-label":
		writeJSON(w, http.StatusOK, CheckResponse{Name: name, Check: "edge_label", Value: tk.IsEdgeLabel(name)})
	case "category":
		writeJSON(w, http.StatusOK, CheckResponse{Name: name, Check: "category", Value: tk.IsCategory(name)})
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown element facet %q", facet))
	}
}

// handleMapping serves /api/mappings/{identifier} and its /resolve
// route
func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	parts := extractPathParts(r.URL.Path, "/api/mappings/")
	identifier := parts[0]
	if identifier == "" {
		writeError(w, http.StatusNotFound, "identifier required")
		return
	}

	tk := s.Toolkit()

	switch {
	case len(parts) == 1:
		writeJSON(w, http.StatusOK, MappingResponse{
			Identifier: identifier,
			Elements:   nonNil(tk.ElementsByMapping(identifier)),
		})
	case len(parts) == 2 && parts[1] == "resolve":
		element, ok := tk.ResolveMapping(identifier)
		writeJSON(w, http.StatusOK, ResolveResponse{
			Identifier: identifier,
			Element:    element,
			Resolved:   ok,
		})
	default:
		writeError(w, http.StatusNotFound, "unknown mapping route")
	}
}

// handleQuery executes one named operation against the loaded toolkit
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req QueryRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	result, err := s.runQuery(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Op:     req.Op,
		Input:  req.Input,
		Result: result,
	})
}

// runQuery maps an op name to its toolkit call. The input is coerced to
// a name at this boundary; non-string JSON values (numbers, objects,
// null) yield the op's absent result, the same answer an unknown name
// gets. An unrecognized op is the only error.
func (s *Server) runQuery(req *QueryRequest) (any, error) {
	tk := s.Toolkit()
	name, ok := taxonomy.AsName(req.Input)

	switch req.Op {
	case "element":
		if !ok {
			return nil, nil
		}
		el := tk.Element(name)
		if el == nil {
			return nil, nil
		}
		return el.Document(), nil

	case "parent":
		if !ok {
			return ParentResponse{Name: name}, nil
		}
		parent, defined := tk.Parent(name)
		return ParentResponse{Name: name, Parent: parent, Defined: defined}, nil

	case "children":
		if !ok {
			return []string{}, nil
		}
		return nonNil(tk.Children(name)), nil

	case "ancestors":
		if !ok {
			return []string{}, nil
		}
		return nonNil(tk.Ancestors(name)), nil

	case "descendants":
		if !ok {
			return []string{}, nil
		}
		return nonNil(tk.Descendants(name)), nil

	case "lineage":
		if !ok {
			return []string{}, nil
		}
		return nonNil(tk.Lineage(name)), nil

	case "roots":
		return nonNil(tk.Roots()), nil

	case "edge_label":
		return ok && tk.IsEdgeLabel(name), nil

	case "category":
		return ok && tk.IsCategory(name), nil

	case "mappings":
		if !ok {
			return []string{}, nil
		}
		return nonNil(tk.ElementsByMapping(name)), nil

	case "resolve":
		if !ok {
			return ResolveResponse{Identifier: name}, nil
		}
		element, resolved := tk.ResolveMapping(name)
		return ResolveResponse{Identifier: name, Element: element, Resolved: resolved}, nil

	default:
		return nil, errors.NewInvalidRequestError("unknown op %q", req.Op)
	}
}

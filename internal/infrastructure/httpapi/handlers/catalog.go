package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/infrastructure/catalog"
	"github.com/valaphee/flowgo/internal/infrastructure/httpapi/dto"
)

// CatalogHandler exposes the graph catalog collaborator's lookupGraph and
// listGraphs contracts over HTTP (spec.md §6), plus the save/delete
// operations needed to populate the catalog in the first place.
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler returns a handler backed by store.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// List handles GET /graphs.
func (h *CatalogHandler) List(c echo.Context) error {
	names := h.store.List()
	summaries := make([]dto.GraphSummary, len(names))
	for i, name := range names {
		summaries[i] = dto.GraphSummary{Name: name}
	}
	return c.JSON(http.StatusOK, summaries)
}

// Get handles GET /graphs/:name.
func (h *CatalogHandler) Get(c echo.Context) error {
	g, err := h.store.Lookup(c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocument(g))
}

// Save handles PUT /graphs/:name.
func (h *CatalogHandler) Save(c echo.Context) error {
	var req dto.SaveGraphRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
	}

	nodes := make([]graph.Node, len(req.Nodes))
	for i, n := range req.Nodes {
		nodes[i] = graph.Node{ID: n.ID, Kind: graph.Kind(n.Kind), Ports: n.Ports, Keyed: n.Keyed, Config: n.Config}
	}

	g, err := graph.New(c.Param("name"), nodes)
	if err != nil {
		return err
	}
	if err := h.store.Save(g); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.GraphSummary{Name: g.Name()})
}

// Delete handles DELETE /graphs/:name.
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toDocument(g *graph.Graph) dto.SaveGraphRequest {
	nodes := g.Nodes()
	out := make([]dto.NodeDocument, len(nodes))
	for i, n := range nodes {
		out[i] = dto.NodeDocument{ID: n.ID, Kind: string(n.Kind), Ports: n.Ports, Keyed: n.Keyed, Config: n.Config}
	}
	return dto.SaveGraphRequest{Name: g.Name(), Nodes: out}
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pantrio/zaru-visits/libs/httpx"
	"github.com/pantrio/zaru-visits/services/visits-service/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

type catalogResponse struct {
	Total      int                 `json:"total"`
	Prototypes []catalog.Prototype `json:"prototypes"`
}

// List handles GET /prototypes.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	prototypes := h.catalog.All()
	if prototypes == nil {
		prototypes = []catalog.Prototype{}
	}
	httpx.WriteJSON(w, http.StatusOK, catalogResponse{
		Total:      len(prototypes),
		Prototypes: prototypes,
	})
}

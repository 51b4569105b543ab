package handlers

import "net/http"

type ToolsHandler struct {
	service QueryService
}

func NewToolsHandler(service QueryService) *ToolsHandler {
	return &ToolsHandler{service: service}
}

// ListTools handles GET /tools: the sorted identifiers of the current catalog
// as a bare JSON array.
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.AvailableTools(r.Context())
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to get available tools: "+err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

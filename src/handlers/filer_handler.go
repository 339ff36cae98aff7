package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/username/tradewatch/src/services"
	"github.com/username/tradewatch/src/utils"
)

type FilerHandler struct {
	lookupService services.LookupService
}

func NewFilerHandler(lookupService services.LookupService) *FilerHandler {
	return &FilerHandler{lookupService: lookupService}
}

func (h *FilerHandler) HandleListFilers(w http.ResponseWriter, r *http.Request) {
	filers, err := h.lookupService.ListFilers()
	if err != nil {
		utils.SendJSONError(w, "error reading trade cache", http.StatusInternalServerError)
		return
	}
	if filers == nil {
		filers = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(filers); err != nil {
		log.Printf("Error generating JSON response for filer list: %v", err)
	}
}

func (h *FilerHandler) HandleGetFiler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		utils.SendJSONError(w, "filer name is required", http.StatusBadRequest)
		return
	}

	aggregate, found := h.lookupService.LookupFiler(name)
	if !found {
		// A failed lookup is "not found", never an error.
		utils.SendJSONError(w, "filer not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(aggregate); err != nil {
		log.Printf("Error generating JSON response for filer %s: %v", name, err)
	}
}

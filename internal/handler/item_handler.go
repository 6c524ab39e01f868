package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"go-rbac-service/internal/model"
	"go-rbac-service/internal/service"
	"go-rbac-service/pkg/apierror"
)

type ItemHandler struct {
	service  *service.ItemService
	validate *validator.Validate
}

func NewItemHandler(service *service.ItemService) *ItemHandler {
	return &ItemHandler{service: service, validate: validator.New()}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), id, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true})
}

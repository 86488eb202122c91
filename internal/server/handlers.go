package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/backend"
	"github.com/desertthunder/hookx/internal/cart"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/setup"
	"github.com/desertthunder/hookx/internal/shared"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// SetupStatus is the body of every /setup response.
type SetupStatus struct {
	SetupComplete bool           `json:"setupComplete"`
	Configured    bool           `json:"configured"`
	Source        backend.Source `json:"source"`
	URL           string         `json:"url"`
}

// SetupHandler serves /setup.
type SetupHandler struct {
	store    *setup.Store
	defaults models.BackendConfig
	logger   *log.Logger
}

func NewSetupHandler(store *setup.Store, defaults models.BackendConfig, logger *log.Logger) *SetupHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SetupHandler{store: store, defaults: defaults, logger: logger}
}

func (h *SetupHandler) Routes() []string { return []string{"/setup"} }

func (h *SetupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.status())
	case http.MethodPost:
		var cfg models.BackendConfig
		if err := decodeBody(w, r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := cfg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.store.SaveConfig(cfg); err != nil {
			h.logger.Error("saving backend config", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.status())
	case http.MethodDelete:
		if err := h.store.ClearConfig(); err != nil {
			h.logger.Error("clearing backend config", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.status())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SetupHandler) status() SetupStatus {
	coords := backend.Resolve(h.store, h.defaults)
	return SetupStatus{
		SetupComplete: h.store.IsSetupComplete(),
		Configured:    coords.IsConfigured(),
		Source:        coords.Source,
		URL:           coords.URL,
	}
}

// AddResponse is the body of POST /cart.
type AddResponse struct {
	Added bool          `json:"added"`
	Cart  cart.Snapshot `json:"cart"`
}

// RemoveResponse is the body of DELETE /cart/items.
type RemoveResponse struct {
	Removed bool          `json:"removed"`
	Cart    cart.Snapshot `json:"cart"`
}

// ContainsResponse is the body of GET /cart/items.
type ContainsResponse struct {
	HookID      string             `json:"hookId"`
	LicenseType models.LicenseType `json:"licenseType"`
	InCart      bool               `json:"inCart"`
}

// CartHandler serves /cart and /cart/items from the cart in the request context.
type CartHandler struct {
	logger *log.Logger
}

func NewCartHandler(logger *log.Logger) *CartHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CartHandler{logger: logger}
}

func (h *CartHandler) Routes() []string { return []string{"/cart", "/cart/items"} }

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	store, err := cart.FromContext(r.Context())
	if err != nil {
		h.logger.Error("cart handler", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch {
	case r.URL.Path == "/cart" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, store.Snapshot())
	case r.URL.Path == "/cart" && r.Method == http.MethodPost:
		h.add(w, r, store)
	case r.URL.Path == "/cart" && r.Method == http.MethodDelete:
		store.Clear()
		writeJSON(w, http.StatusOK, store.Snapshot())
	case r.URL.Path == "/cart/items" && r.Method == http.MethodGet:
		h.contains(w, r, store)
	case r.URL.Path == "/cart/items" && r.Method == http.MethodDelete:
		h.remove(w, r, store)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request, store *cart.Store) {
	var item models.CartItem
	if err := decodeBody(w, r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	added, err := store.Add(item)
	if errors.Is(err, shared.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, AddResponse{Added: added, Cart: store.Snapshot()})
}

func (h *CartHandler) contains(w http.ResponseWriter, r *http.Request, store *cart.Store) {
	hookID, license, ok := itemKey(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ContainsResponse{
		HookID:      hookID,
		LicenseType: license,
		InCart:      store.Contains(hookID, license),
	})
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request, store *cart.Store) {
	hookID, license, ok := itemKey(w, r)
	if !ok {
		return
	}

	removed := store.Remove(hookID, license)
	writeJSON(w, http.StatusOK, RemoveResponse{Removed: removed, Cart: store.Snapshot()})
}

// itemKey reads the hookId and licenseType query parameters, answering 400 when either is unusable.
func itemKey(w http.ResponseWriter, r *http.Request) (string, models.LicenseType, bool) {
	q := r.URL.Query()
	hookID := q.Get("hookId")
	if hookID == "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: hookId", shared.ErrMissingArgument))
		return "", "", false
	}
	license, err := models.ParseLicenseType(q.Get("licenseType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %v", shared.ErrInvalidLicense, err))
		return "", "", false
	}
	return hookID, license, true
}

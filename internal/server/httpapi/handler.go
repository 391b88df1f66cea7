// Package httpapi is the HTTP routing and validation layer in front of the
// services. It parses requests, checks input shape, maps service errors to
// status codes, and nothing else: all ownership and lifecycle rules live in
// the services.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/logging"
	"github.com/avoronin/placekeeper/internal/server/config"
	"github.com/avoronin/placekeeper/internal/server/models"
	"github.com/avoronin/placekeeper/internal/server/services"
)

// minDescriptionLen matches the validator the API has always shipped with.
const minDescriptionLen = 5

const minPasswordLen = 6

type Handler struct {
	users        *services.UserService
	places       *services.PlaceService
	logger       logging.Logger
	jwtSecret    []byte
	maxAssetSize int64
	storeTimeout time.Duration
	mux          *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(us *services.UserService, ps *services.PlaceService, logger logging.Logger, cfg *config.Config) *Handler {
	h := &Handler{
		users:        us,
		places:       ps,
		logger:       logger.With("module", "httpapi"),
		jwtSecret:    []byte(cfg.SecretKey),
		maxAssetSize: cfg.MaxAssetSize,
		storeTimeout: cfg.StoreTimeout,
		mux:          &http.ServeMux{},
	}

	authed := func(fn http.HandlerFunc) http.Handler {
		return h.withStoreTimeout(h.requireAuth(fn))
	}
	open := func(fn http.HandlerFunc) http.Handler {
		return h.withStoreTimeout(fn)
	}

	h.mux.Handle("POST /api/users/signup", open(h.handleSignup))
	h.mux.Handle("POST /api/users/login", open(h.handleLogin))
	h.mux.Handle("GET /api/users", open(h.handleListUsers))

	h.mux.Handle("GET /api/places/{placeID}", open(h.handleGetPlace))
	h.mux.Handle("GET /api/users/{userID}/places", open(h.handleGetPlacesByUser))

	h.mux.Handle("POST /api/places", authed(h.handleCreatePlace))
	h.mux.Handle("PATCH /api/places/{placeID}", authed(h.handleUpdatePlace))
	h.mux.Handle("DELETE /api/places/{placeID}", authed(h.handleDeletePlace))

	return h
}

var _ http.Handler = (*Handler)(nil)

// --- wire types ---

type userResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type placeResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Location    locationResponse `json:"location"`
	Image       string           `json:"image"`
	Creator     string           `json:"creator"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func toUserResponse(u *models.User) userResponse {
	placeIDs := u.PlaceIDs
	if placeIDs == nil {
		placeIDs = []string{}
	}
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.ImagePath, Places: placeIDs}
}

func toPlaceResponse(p *models.Place) placeResponse {
	return placeResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    locationResponse{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
		Image:       p.ImagePath,
		Creator:     p.OwnerID,
	}
}

// --- user handlers ---

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if name == "" || !strings.Contains(email, "@") || len(password) < minPasswordLen {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	image, mime, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.users.Signup(r.Context(), name, email, password, image, mime)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{UserID: result.UserID, Email: result.Email, Token: result.Token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	result, err := h.users.Login(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{UserID: result.UserID, Email: result.Email, Token: result.Token})
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.Users(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users := make([]userResponse, 0, len(list))
	for _, u := range list {
		users = append(users, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// --- place handlers ---

func (h *Handler) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.Get(r.Context(), r.PathValue("placeID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceResponse(place)})
}

func (h *Handler) handleGetPlacesByUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.places.GetByOwner(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	places := make([]placeResponse, 0, len(list))
	for _, p := range list {
		places = append(places, toPlaceResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{"places": places})
}

func (h *Handler) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing token")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	address := strings.TrimSpace(r.FormValue("address"))

	if title == "" || len(description) < minDescriptionLen || address == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	image, mime, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	place, err := h.places.Create(r.Context(), caller, title, description, address, image, mime)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"place": toPlaceResponse(place)})
}

func (h *Handler) handleUpdatePlace(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || len(description) < minDescriptionLen {
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
		return
	}

	place, err := h.places.Update(r.Context(), caller, r.PathValue("placeID"), title, description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"place": toPlaceResponse(place)})
}

func (h *Handler) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing token")
		return
	}

	if err := h.places.Delete(r.Context(), caller, r.PathValue("placeID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "place deleted"})
}

// --- helpers ---

// readUpload pulls the "image" part out of a multipart form. The hard size
// check belongs to the asset store; the +1 read just avoids buffering
// arbitrarily large bodies here.
func (h *Handler) readUpload(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(h.maxAssetSize); err != nil {
		return nil, "", common.ErrorValidation
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", common.ErrorValidation
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxAssetSize+1))
	if err != nil {
		return nil, "", common.ErrorValidation
	}

	return data, header.Header.Get("Content-Type"), nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps the error taxonomy to status codes. Anything unrecognized
// is an internal error and its details stay out of the response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusUnprocessableEntity, "invalid inputs passed, please check your data")
	case errors.Is(err, common.ErrorAssetRejected):
		writeMessage(w, http.StatusUnprocessableEntity, "image rejected: unsupported type or too large")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusUnprocessableEntity, "user already exists with the same email")
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "could not find the requested resource")
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusForbidden, "could not identify user")
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, "you are not the creator of this content")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		writeMessage(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, common.ErrorUnavailable):
		writeMessage(w, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "something went wrong")
	}
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/go_lessons/internal/cart"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/checkout"
	"github.com/fjod/go_lessons/internal/domain"
	"github.com/fjod/go_lessons/internal/pipeline"
	"github.com/fjod/go_lessons/internal/session"
	"github.com/go-chi/chi/v5"
)

// WidgetHandler exposes the booking engine as the JSON surface the
// widget renders from.
type WidgetHandler struct {
	session *session.Session
}

func NewWidgetHandler(s *session.Session) *WidgetHandler {
	return &WidgetHandler{session: s}
}

type LessonsResponseDTO struct {
	Lessons []domain.Lesson `json:"lessons"`
	Loading bool            `json:"loading"`
}

type SearchRequestDTO struct {
	Query string `json:"q"`
}

type SearchResponseDTO struct {
	Seq      uint64 `json:"seq"`
	InFlight int    `json:"in_flight"`
}

type SearchResultsDTO struct {
	Term     string          `json:"term"`
	Active   bool            `json:"active"`
	InFlight int             `json:"in_flight"`
	Results  []domain.Lesson `json:"results"`
}

type AddCartItemRequestDTO struct {
	LessonID string `json:"lesson_id"`
}

type AddCartItemResponseDTO struct {
	Added bool `json:"added"`
}

type CartResponseDTO struct {
	Items []domain.Lesson `json:"items"`
	Total float64         `json:"total"`
	Size  int             `json:"size"`
}

type FormRequestDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type FormResponseDTO struct {
	ValidName   bool `json:"valid_name"`
	ValidPhone  bool `json:"valid_phone"`
	CanCheckout bool `json:"can_checkout"`
}

type CheckoutResponseDTO struct {
	Status  string `json:"status"`
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type SessionResponseDTO struct {
	View    string `json:"view"`
	Message string `json:"message"`
	Loading bool   `json:"loading"`
}

type ViewRequestDTO struct {
	View string `json:"view"`
}

// GetLessons returns the display-ordered list. Optional sort/dir query
// params update the session's sort state before the list is derived.
func (h *WidgetHandler) GetLessons(w http.ResponseWriter, r *http.Request) {
	key, err := pipeline.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
		return
	}
	dir, err := pipeline.ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_dir", err.Error())
		return
	}
	h.session.SetSort(key, dir)

	respondJSON(w, http.StatusOK, LessonsResponseDTO{
		Lessons: h.session.Lessons(),
		Loading: h.session.Loading(),
	})
}

// PostSearch issues a query. The lookup may still be in flight when the
// response goes out; GET /search returns whatever is current. The
// request context is detached so a closed connection cannot cancel the
// lookup mid-flight.
func (h *WidgetHandler) PostSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	seq := h.session.SearchQuery(context.WithoutCancel(r.Context()), req.Query)
	respondJSON(w, http.StatusAccepted, SearchResponseDTO{
		Seq:      seq,
		InFlight: h.session.SearchInFlight(),
	})
}

func (h *WidgetHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	results, active := h.session.SearchResults()
	respondJSON(w, http.StatusOK, SearchResultsDTO{
		Term:     h.session.SearchTerm(),
		Active:   active,
		InFlight: h.session.SearchInFlight(),
		Results:  results,
	})
}

func (h *WidgetHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items: h.session.CartLessons(),
		Total: h.session.CartTotal(),
		Size:  h.session.CartSize(),
	})
}

func (h *WidgetHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.LessonID == "" {
		respondError(w, http.StatusBadRequest, "invalid_lesson_id", "lesson_id is required")
		return
	}

	added, err := h.session.AddToCart(req.LessonID)
	if errors.Is(err, catalog.ErrLessonNotFound) {
		respondError(w, http.StatusNotFound, "lesson_not_found", "no lesson with id "+req.LessonID)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	// added=false means sold out; that is a routine answer, not an error.
	respondJSON(w, http.StatusOK, AddCartItemResponseDTO{Added: added})
}

func (h *WidgetHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_index", "index must be an integer")
		return
	}

	if err := h.session.RemoveFromCart(index); err != nil {
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			respondError(w, http.StatusNotFound, "index_out_of_range", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Items: h.session.CartLessons(),
		Total: h.session.CartTotal(),
		Size:  h.session.CartSize(),
	})
}

func (h *WidgetHandler) PutForm(w http.ResponseWriter, r *http.Request) {
	var req FormRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	form := domain.OrderForm{Name: req.Name, Phone: req.Phone}
	h.session.SetForm(form)
	respondJSON(w, http.StatusOK, FormResponseDTO{
		ValidName:   form.ValidName(),
		ValidPhone:  form.ValidPhone(),
		CanCheckout: h.session.CanCheckout(),
	})
}

func (h *WidgetHandler) OpenCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.OpenCheckout(); err != nil {
		if errors.Is(err, checkout.ErrNotReady) {
			respondError(w, http.StatusConflict, "not_ready", "cart empty or form invalid")
			return
		}
		respondError(w, http.StatusConflict, "illegal_state", err.Error())
		return
	}
	h.respondCheckout(w)
}

// ConfirmCheckout drives the whole submission. It runs on a detached
// context: once the order call goes out, the inventory updates must all
// be joined even if the widget's connection drops.
func (h *WidgetHandler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	_, err := h.session.ConfirmCheckout(context.WithoutCancel(r.Context()))
	if errors.Is(err, checkout.ErrIllegalTransition) {
		respondError(w, http.StatusConflict, "illegal_state", err.Error())
		return
	}
	// Order failure is reported through status/outcome/message; the
	// widget shows the message and the user may retry.
	h.respondCheckout(w)
}

func (h *WidgetHandler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	h.session.CancelCheckout()
	h.respondCheckout(w)
}

func (h *WidgetHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	h.respondCheckout(w)
}

func (h *WidgetHandler) respondCheckout(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, CheckoutResponseDTO{
		Status:  h.session.CheckoutStatus().String(),
		Outcome: string(h.session.CheckoutOutcome()),
		Message: h.session.Message(),
	})
}

func (h *WidgetHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionResponseDTO{
		View:    string(h.session.View()),
		Message: h.session.Message(),
		Loading: h.session.Loading(),
	})
}

func (h *WidgetHandler) PutView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	switch v := session.View(req.View); v {
	case session.ViewHome, session.ViewLessons, session.ViewCart:
		h.session.Go(v)
		respondJSON(w, http.StatusOK, SessionResponseDTO{
			View:    string(v),
			Message: h.session.Message(),
			Loading: h.session.Loading(),
		})
	default:
		respondError(w, http.StatusBadRequest, "invalid_view", "view must be home, lessons or cart")
	}
}

package dialogue

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"insurance-ai-advisor/internal/profile"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type ChatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type ProfileSubmitRequest struct {
	ConversationID string          `json:"conversation_id"`
	Profile        profile.Profile `json:"profile"`
}

type ConversationIDRequest struct {
	ConversationID string `json:"conversation_id"`
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CreateConversation(r.Context())
	if err != nil {
		http.Error(w, "Failed to create conversation", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"conversation_id": c.ID.String(),
	})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	c, err := h.svc.GetConversation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(c)
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ConversationID)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Missing message", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ProcessMessage(r.Context(), id, req.Message)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) HandleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	var req ProfileSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ConversationID)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	result, err := h.svc.SubmitProfile(r.Context(), id, req.Profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req ConversationIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ConversationID)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ResetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) HandleHandoff(w http.ResponseWriter, r *http.Request) {
	var req ConversationIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	id, err := uuid.Parse(req.ConversationID)
	if err != nil {
		http.Error(w, "Invalid conversation ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.Handoff(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{
		"status": "An advisor has received your profile and will reach out shortly.",
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		http.Error(w, "Conversation not found", http.StatusNotFound)
	case errors.Is(err, ErrProviderUnavailable):
		http.Error(w, "Assistant temporarily unavailable: "+err.Error(), http.StatusBadGateway)
	case errors.Is(err, ErrProfileIncomplete):
		http.Error(w, "Profile is not complete enough for a handoff", http.StatusConflict)
	default:
		http.Error(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/conversation", h.CreateConversation)
	r.Get("/conversation/{id}", h.GetConversation)
	r.Post("/conversation/chat", h.HandleChat)
	r.Post("/conversation/profile", h.HandleProfileSubmit)
	r.Post("/conversation/reset", h.HandleReset)
	r.Post("/conversation/handoff", h.HandleHandoff)
}

// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/invoicelens/go-invoicelens/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

// CreateThread opens a new conversation on an owned document.
func (h *ChatHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	documentID, ok := pathID(w, r, "documentId")
	if !ok {
		return
	}

	th, err := h.ChatService.CreateThread(r.Context(), userID, documentID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "could not create thread", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, th)
}

type addMessageRequest struct {
	Content string `json:"content"`
}

// AddMessage runs one chat turn and returns both persisted messages.
func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	threadID, ok := pathID(w, r, "threadId")
	if !ok {
		return
	}

	var req addMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(w, "message content is required", http.StatusBadRequest)
		return
	}

	pair, err := h.ChatService.AddUserMessageAndReply(r.Context(), userID, threadID, req.Content)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "could not process message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// GetThread returns an owned thread with its messages in creation order.
func (h *ChatHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	threadID, ok := pathID(w, r, "threadId")
	if !ok {
		return
	}

	th, err := h.ChatService.GetThread(r.Context(), userID, threadID)
	if err != nil {
		if writeGuardError(w, err) {
			return
		}
		writeError(w, "could not load thread", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, th)
}

package handlers

import (
	"log"
	"net/http"
	"strings"

	"fintrack-server/src/ai"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/util"
)

// AIUnavailable answers the chat route when no API key is configured.
func AIUnavailable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WriteError(w, http.StatusServiceUnavailable, "OpenRouter API key missing")
	}
}

func AIContextChat(pool db.Querier, client ai.Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req struct {
			Message string `json:"message"`
			Model   string `json:"model"`
		}
		if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Message) == "" {
			util.WriteError(w, http.StatusBadRequest, "Message diperlukan")
			return
		}
		model, err := ai.ResolveModel(req.Model)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, "Model tidak diizinkan")
			return
		}

		uc, err := ai.BuildContext(r.Context(), pool, userID)
		if err != nil {
			internalError(w, "Failed to build AI context for user %s: %v", userID, err)
			return
		}
		prompt, err := ai.SystemPrompt(uc)
		if err != nil {
			internalError(w, "Failed to render AI prompt for user %s: %v", userID, err)
			return
		}

		content, err := ai.Ask(r.Context(), client, model, prompt, req.Message)
		if err != nil {
			log.Printf("ERROR: AI context chat failed for user %s with model %s: %v", userID, model, err)
			util.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		log.Printf("INFO: AI chat answered for user %s with model %s", userID, model)
		util.WriteJSON(w, http.StatusOK, map[string]string{"content": content})
	}
}


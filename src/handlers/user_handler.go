package handlers

import (
	"errors"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/util"

	"golang.org/x/crypto/bcrypt"
)

func GetCurrentUser(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				log.Printf("ERROR: Session refers to missing user %s", userID)
				util.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			internalError(w, "Failed to get user %s: %v", userID, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(pool db.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode change password request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if !util.ValidatePassword(req.NewPassword) {
			util.WriteError(w, http.StatusBadRequest, "Password minimal 8 karakter")
			return
		}

		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			internalError(w, "Failed to get user %s: %v", userID, err)
			return
		}
		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Printf("ERROR: Incorrect current password for user %s", userID)
			util.WriteError(w, http.StatusUnauthorized, "Password lama salah")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			internalError(w, "Failed to hash new password for user %s: %v", userID, err)
			return
		}
		if err := db.UpdateUserPassword(r.Context(), pool, userID, string(hashedPassword)); err != nil {
			internalError(w, "Failed to update password for user %s: %v", userID, err)
			return
		}

		log.Printf("INFO: Password changed for user %s", userID)
		util.WriteSuccess(w)
	}
}

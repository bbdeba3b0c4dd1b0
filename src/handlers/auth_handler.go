package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"golang.org/x/crypto/bcrypt"
)

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func startSession(w http.ResponseWriter, r *http.Request, secret string, user *models.User, status int) {
	token, expires, err := middleware.IssueToken(secret, user.ID, user.Email, time.Now())
	if err != nil {
		internalError(w, "Failed to generate JWT token for user %s: %v", user.ID, err)
		return
	}
	middleware.SetSessionCookie(w, r, token, expires)
	util.WriteJSON(w, status, sessionResponse{Token: token, User: user})
}

func Register(pool db.Querier, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = util.NormalizeEmail(req.Email)

		if req.Email == "" || req.Password == "" {
			util.WriteError(w, http.StatusBadRequest, "Email & password wajib")
			return
		}
		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			util.WriteError(w, http.StatusBadRequest, "Format email tidak valid")
			return
		}
		if !util.ValidatePassword(req.Password) {
			util.WriteError(w, http.StatusBadRequest, "Password minimal 8 karakter")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(w, "Failed to hash password for %s: %v", req.Email, err)
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req, string(hashedPassword))
		if err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
				util.WriteError(w, http.StatusConflict, "Email sudah terdaftar")
				return
			}
			internalError(w, "Failed to create user %s: %v", req.Email, err)
			return
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %s", user.Email, user.ID)
		startSession(w, r, secret, user, http.StatusCreated)
	}
}

func Login(pool db.Querier, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			util.WriteError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		email := util.NormalizeEmail(credentials.Email)
		if email == "" || credentials.Password == "" {
			util.WriteError(w, http.StatusBadRequest, "Email & password wajib")
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, email)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				internalError(w, "Failed to look up user %s: %v", email, err)
				return
			}
			log.Printf("ERROR: Login attempt for unknown email: %s", email)
			util.WriteError(w, http.StatusUnauthorized, "Email atau password salah")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password for user %s", user.ID)
			util.WriteError(w, http.StatusUnauthorized, "Email atau password salah")
			return
		}

		log.Printf("INFO: Successful login - User: %s", user.ID)
		startSession(w, r, secret, user, http.StatusOK)
	}
}

func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearSessionCookie(w)
		util.WriteSuccess(w)
	}
}

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"fintrack-server/src/middleware"
	"fintrack-server/src/util"
)

const serverError = "Terjadi kesalahan pada server"

// currentUser returns the authenticated user id, writing a 401 when there is none.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		util.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func internalError(w http.ResponseWriter, format string, args ...interface{}) {
	log.Printf("ERROR: "+format, args...)
	util.WriteError(w, http.StatusInternalServerError, serverError)
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

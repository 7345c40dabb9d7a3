package session

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// LoginHandler opens a session: validates credentials and dates, fetches the
// range, and returns the token the rest of the API expects.
func LoginHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		sess, err := store.Login(creds)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Printf("Session opened for role %s (%s..%s)", sess.Role, sess.StartISO, sess.EndISO)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
	}
}

// LogoutHandler drops the caller's session.
func LogoutHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := TokenFromRequest(r); token != "" {
			store.Delete(token)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Logged out."})
	}
}

package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"expensor/internal/models"
	"expensor/internal/repositories/sqlconnect"
	"expensor/internal/storage"
	"expensor/internal/storage/mysqlstore"
	"expensor/pkg/utils"
)

func userStore(w http.ResponseWriter) *mysqlstore.Store {
	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Errorf("DB connection failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return mysqlstore.New(db)
}

func requesterID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := r.Context().Value(utils.ContextKey("userId")).(string)
	if !ok || id == "" {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return id, true
}

// SaveUserHandler creates or refreshes the caller's account record.
// Called after sign-in so the other tables can reference the account.
func SaveUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		ProfileImageURL string `json:"profile_image_url"`
	}
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" {
		utils.WriteError(w, "name and email are required", http.StatusBadRequest)
		return
	}

	store := userStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user := &models.User{
		MicrosoftID: userID,
		Name:        req.Name,
		Email:       req.Email,
	}
	if req.ProfileImageURL != "" {
		user.ProfileImageURL = sql.NullString{String: req.ProfileImageURL, Valid: true}
	}

	if err := store.UpsertUser(ctx, user); err != nil {
		utils.Logger.Errorf("failed to save user %s: %v", userID, err)
		utils.WriteError(w, "failed to save user, try again later!", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "user saved successfully",
	})
}

// GetMeHandler returns the caller's account record.
func GetMeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	store := userStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "user not found, save your profile first", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch user %s: %v", userID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   user,
	})
}

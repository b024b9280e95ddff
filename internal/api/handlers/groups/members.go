package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"expensor/internal/repositories/sqlconnect"
	"expensor/internal/services"
	"expensor/internal/storage"
	"expensor/internal/storage/mysqlstore"
	"expensor/pkg/utils"
)

func membershipManager(w http.ResponseWriter) *services.MembershipManager {
	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Errorf("DB connection failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return services.NewMembershipManager(mysqlstore.New(db), services.MailNotifier{})
}

// AddGroupMemberHandler adds a user to the group. Admin only; adding a
// user who is already in the group is a conflict.
func AddGroupMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	type request struct {
		MicrosoftID string `json:"microsoft_id"`
	}
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.MicrosoftID == "" {
		utils.WriteError(w, "microsoft_id is required", http.StatusBadRequest)
		return
	}

	mgr := membershipManager(w)
	if mgr == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := mgr.AddMember(ctx, groupID, req.MicrosoftID, userID)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		utils.WriteError(w, "group or user not found", http.StatusNotFound)
		return
	case errors.Is(err, storage.ErrNotAdmin):
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	case errors.Is(err, storage.ErrConflict):
		utils.WriteError(w, "user is already a member of this group", http.StatusConflict)
		return
	case errors.Is(err, services.ErrMissingFields):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	default:
		utils.Logger.Errorf("failed to add member to group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member added successfully",
	})
}

// RemoveGroupMemberHandler removes a user from the group. Whether the
// caller is not the admin or the user is not in the group, the failure
// is reported with one generic message so the caller learns nothing
// about the group's composition.
func RemoveGroupMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}

	type request struct {
		RemovedID string `json:"removed_id"`
	}
	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.RemovedID == "" {
		utils.WriteError(w, "removed_id is required", http.StatusBadRequest)
		return
	}

	mgr := membershipManager(w)
	if mgr == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	removed, err := mgr.RemoveMember(ctx, groupID, req.RemovedID, userID)
	if err != nil {
		if errors.Is(err, services.ErrMissingFields) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to remove member from group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !removed {
		utils.WriteError(w, "Operazione fallita: Non sei Admin o l'utente non esiste nel gruppo.", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member removed successfully",
	})
}

package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expensor/internal/repositories/sqlconnect"
	"expensor/internal/storage"
	"expensor/internal/storage/mysqlstore"
	"expensor/pkg/utils"
)

func groupStore(w http.ResponseWriter) *mysqlstore.Store {
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

func groupIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// CreateGroupHandler creates a group with the caller as its admin.
func CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}

	type request struct {
		Name string `json:"name"`
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
	if req.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}
	if len(req.Name) > 100 {
		utils.WriteError(w, "group name too long", http.StatusBadRequest)
		return
	}

	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := store.CreateGroup(ctx, req.Name, userID)
	if err != nil {
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group, try again later!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "group created successfully",
		"data": map[string]interface{}{
			"group_id":   id,
			"group_name": req.Name,
			"admin":      userID,
		},
	})
}

// DeleteGroupHandler deletes a group and, through the schema cascades,
// its members, expenses and shares. Admin only.
func DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	deleted, err := store.DeleteGroupAsAdmin(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("error deleting group %d: %v", groupID, err)
		utils.WriteError(w, "error deleting group", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "group and its members deleted successfully",
	})
}

// GetGroupHandler returns one group's details. Members and the admin
// may read it.
func GetGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, err := store.GetGroupInfo(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	member, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("error checking membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !member && group.Admin != userID {
		utils.WriteError(w, "forbidden: you are not a member of this group", http.StatusForbidden)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   group,
	})
}

// ListMyGroupsHandler lists every group the caller administers or
// belongs to.
func ListMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := requesterID(w, r)
	if !ok {
		return
	}
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	groupList, err := store.ListGroupsForUser(ctx, userID)
	if err != nil {
		utils.Logger.Errorf("error listing groups: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(groupList),
		"data":   groupList,
	})
}

// ListGroupMembersHandler lists a group's members with their financial
// counters.
func ListGroupMembersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	group, err := store.GetGroupInfo(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	member, err := store.IsMember(ctx, groupID, userID)
	if err != nil {
		utils.Logger.Errorf("error checking membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !member && group.Admin != userID {
		utils.WriteError(w, "forbidden: you are not a member of this group", http.StatusForbidden)
		return
	}

	members, err := store.ListGroupMembers(ctx, groupID)
	if err != nil {
		utils.Logger.Errorf("error listing members of group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(members),
		"data":   members,
	})
}

// GetGroupAdminHandler returns the group's admin id.
func GetGroupAdminHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requesterID(w, r); !ok {
		return
	}
	groupID, ok := groupIDFromPath(w, r)
	if !ok {
		return
	}
	store := groupStore(w)
	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	admin, err := store.GetGroupAdmin(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching admin of group %d: %v", groupID, err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   map[string]string{"admin": admin},
	})
}

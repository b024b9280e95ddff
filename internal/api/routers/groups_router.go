package routers

import (
	"net/http"

	"expensor/internal/api/handlers/groups"
)

func groupsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/groups/create", groups.CreateGroupHandler)

	mux.HandleFunc("/groups/my", groups.ListMyGroupsHandler)

	mux.HandleFunc("/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			groups.DeleteGroupHandler(w, r)
			return
		}
		groups.GetGroupHandler(w, r)
	})

	mux.HandleFunc("/groups/{id}/admin", groups.GetGroupAdminHandler)

	mux.HandleFunc("/groups/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			groups.AddGroupMemberHandler(w, r)
			return
		}
		groups.ListGroupMembersHandler(w, r)
	})

	mux.HandleFunc("/groups/{id}/members/remove", groups.RemoveGroupMemberHandler)

	mux.HandleFunc("/groups/{id}/expenses", groups.ListGroupExpensesHandler)

	return mux
}

package routers

import (
	"net/http"

	"expensor/internal/api/handlers/groups"
)

func groupExpenseRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/group-expense/create", groups.CreateGroupExpenseHandler)

	mux.HandleFunc("/group-expense/remove", groups.DeleteGroupExpenseHandler)

	mux.HandleFunc("/group-expense/details/{expenseId}", groups.GetGroupExpenseHandler)

	return mux
}

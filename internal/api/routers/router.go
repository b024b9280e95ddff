package routers

import (
	"net/http"

	"expensor/pkg/utils"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, map[string]string{"status": "ok"})
	})

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	gRouter := groupsRouter()
	mux.Handle("/groups/", gRouter)

	sRouter := splitsRouter()
	mux.Handle("/splits/", sRouter)

	geRouter := groupExpenseRouter()
	mux.Handle("/group-expense/", geRouter)

	eRouter := expensesRouter()
	mux.Handle("/expenses/", eRouter)

	return mux
}

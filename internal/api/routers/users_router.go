package routers

import (
	"net/http"

	"expensor/internal/api/handlers/users"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/save", users.SaveUserHandler)

	mux.HandleFunc("/users/me", users.GetMeHandler)

	return mux
}

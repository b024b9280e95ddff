package routers

import (
	"net/http"

	"expensor/internal/api/handlers/splits"
)

func splitsRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/splits/add", splits.AddExpenseSplitHandler)

	mux.HandleFunc("/splits/set", splits.SetExpenseSplitHandler)

	mux.HandleFunc("/splits/remove", splits.RemoveExpenseSplitHandler)

	mux.HandleFunc("/splits/settle", splits.SettleExpenseSplitHandler)

	mux.HandleFunc("/splits/{expenseId}", splits.GetExpenseSplitsHandler)

	return mux
}

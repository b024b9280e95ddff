package routers

import (
	"net/http"

	"expensor/internal/api/handlers/expenses"
)

func expensesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/add", expenses.AddExpenseHandler)

	mux.HandleFunc("/expenses/list", expenses.ListExpensesHandler)

	mux.HandleFunc("/expenses/{id}", expenses.RemoveExpenseHandler)

	return mux
}

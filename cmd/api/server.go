package main

import (
	"crypto/tls"
	"net/http"
	"os"

	mw "expensor/internal/api/middlewares"
	"expensor/internal/api/routers"
	"expensor/internal/repositories/sqlconnect"
	"expensor/pkg/cron"
	"expensor/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	utils.InitLogger()

	db, err := sqlconnect.DB()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	if err := sqlconnect.RunMigrations(db); err != nil {
		utils.Logger.Fatal("DB migration failed: ", err)
	}

	cronScheduler := cron.StartCronJob(db)
	defer cronScheduler.Stop()

	port := os.Getenv("SERVER_PORT")
	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware, "/health")

	secureMux := jwtMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:      port,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	utils.Logger.Info("Server is running on port ", port)
	err = server.ListenAndServeTLS(cert, key)
	if err != nil {
		utils.Logger.Fatal("Error starting the server: ", err)
	}
}

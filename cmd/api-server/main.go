package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"novelhub/internal/api"
	"novelhub/internal/auth"
	"novelhub/internal/fetch"
	"novelhub/internal/notify"
	"novelhub/internal/scrape"
	"novelhub/internal/store"
	"novelhub/pkg/database"
	"novelhub/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()
	dbCfg := database.DefaultConfig()

	// If the database cannot be opened the process still starts and
	// serves empty results through the null store.
	var st store.Store
	var db *sql.DB
	db, err := database.Open(dbCfg)
	if err != nil {
		log.Printf("failed to open db at %s, continuing with empty store: %v", dbCfg.Path, err)
		db = nil
		st = store.NewNull()
	} else {
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		st = store.NewSQLite(db)
	}

	hub := notify.NewHub()
	svc := scrape.NewService(st, fetch.NewClient(), hub)

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "ws_clients": hub.Count()})
	})
	router.GET("/ws", notify.WSHandler(hub))

	api.NewHandler(st, svc).RegisterRoutes(router)

	// user accounts need the real database
	if db != nil {
		tokens := auth.TokenService{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Duration: cfg.JWTDuration,
		}
		authRepo := auth.NewRepo(db)
		auth.NewHandler(authRepo, tokens).RegisterRoutes(router.Group("/api/auth"))

		users := router.Group("/api/users")
		users.Use(auth.Middleware(tokens))
		users.GET("/me", func(c *gin.Context) {
			claims := auth.MustGetClaims(c)
			c.JSON(http.StatusOK, gin.H{
				"status": "success",
				"user":   gin.H{"id": claims.UserID, "username": claims.Username},
			})
		})
	}

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

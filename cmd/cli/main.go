// The cli binary is the interactive console menu: scrape a novel,
// extract its chapters, or start the API server, working against the
// same database as the server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/manifoldco/promptui"

	"novelhub/internal/api"
	"novelhub/internal/fetch"
	"novelhub/internal/scrape"
	"novelhub/internal/store"
	"novelhub/pkg/database"
	"novelhub/pkg/utils"
)

const (
	menuScrape  = "Scrape and store a new novel"
	menuExtract = "Extract content for a novel's chapters"
	menuServe   = "Start the API server"
	menuExit    = "Exit"
)

func main() {
	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	st := store.NewSQLite(db)
	svc := scrape.NewService(st, fetch.NewClient(), nil)
	ctx := context.Background()

	fmt.Println("Novel Database and API Tool")
	fmt.Println("===========================")

	for {
		menu := promptui.Select{
			Label: "Choose an action",
			Items: []string{menuScrape, menuExtract, menuServe, menuExit},
		}
		_, choice, err := menu.Run()
		if err != nil {
			// Ctrl-C at the menu
			return
		}

		switch choice {
		case menuScrape:
			runScrape(ctx, svc)
		case menuExtract:
			runExtractAll(ctx, svc)
		case menuServe:
			runServer(st, svc)
			return
		case menuExit:
			return
		}
	}
}

func runScrape(ctx context.Context, svc *scrape.Service) {
	url, err := prompt("Novel URL", true)
	if err != nil {
		return
	}

	w, err := svc.ScrapeWork(ctx, url)
	if err != nil {
		fmt.Printf("Failed to scrape novel: %v\n", err)
		return
	}
	fmt.Printf("Success! Novel %q stored with %d chapters (ID: %s)\n", w.Title, w.TotalChapters, w.ID)
}

func runExtractAll(ctx context.Context, svc *scrape.Service) {
	workID, err := prompt("Novel ID", true)
	if err != nil {
		return
	}
	limitStr, err := prompt("Limit number of chapters (empty for all)", false)
	if err != nil {
		return
	}

	limit := 0
	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			fmt.Println("Invalid limit.")
			return
		}
	}

	res, err := svc.ExtractAll(ctx, workID, limit)
	if err != nil {
		fmt.Printf("Failed to extract chapters: %v\n", err)
		return
	}
	fmt.Printf("Extraction completed: %d successful, %d failed\n", res.SuccessCount, res.FailureCount)
}

func runServer(st store.Store, svc *scrape.Service) {
	cfg := utils.LoadConfig()
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	api.NewHandler(st, svc).RegisterRoutes(router)

	log.Printf("HTTP API server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func prompt(label string, required bool) (string, error) {
	p := promptui.Prompt{Label: label}
	if required {
		p.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("required")
			}
			return nil
		}
	}
	v, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

// Package main is the entry point for the plateyard web front end. It is a
// thin presentation tier over the catalog API: listing with paging, sorting
// and filtering, an add-plate form, and reservation toggles.
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/http/v1/dto"
	"plateyard/internal/webclient"
	"plateyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	client := webclient.New(getEnv("CATALOG_URL", "http://localhost:8080"))
	app := newApp(client, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.LoadHTMLGlob(getEnv("TEMPLATES_GLOB", "web/templates/*.html"))

	router.GET("/", app.listPage)
	router.POST("/plates", app.addPlate)
	router.POST("/plates/:id/reserve", app.toggle("reserve"))
	router.POST("/plates/:id/release", app.toggle("release"))

	port := getEnv("WEB_PORT", "8081")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Infow("web front end starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("web front end stopped")
}

type app struct {
	client *webclient.Client
	log    *logger.Logger
}

func newApp(client *webclient.Client, log *logger.Logger) *app {
	return &app{client: client, log: log}
}

// listPage renders one page of the catalog. Query parameters pass through to
// the service untouched; the service owns normalization and the sort-field
// policy.
func (a *app) listPage(c *gin.Context) {
	params := webclient.ListParams{
		PageSize:     atoiOr(c.Query("pageSize"), plate.DefaultPageSize),
		PageIndex:    atoiOr(c.Query("pageIndex"), 0),
		SortField:    c.Query("sortField"),
		SortOrder:    c.Query("sortOrder"),
		LetterFilter: c.Query("letterFilter"),
		NumberFilter: c.Query("numberFilter"),
	}

	page, err := a.client.List(c.Request.Context(), params)
	if err != nil {
		a.log.Errorw("failed to list plates", "error", err)
		c.HTML(http.StatusBadGateway, "error.html", gin.H{"Error": userMessage(err)})
		return
	}

	lastPage := 0
	if page.TotalCount > 0 {
		lastPage = int((page.TotalCount - 1) / int64(page.PageSize))
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Page":      page,
		"Params":    params,
		"PrevPage":  page.PageIndex - 1,
		"NextPage":  page.PageIndex + 1,
		"HasPrev":   page.PageIndex > 0,
		"HasNext":   page.PageIndex < lastPage,
		"FlashErr":  c.Query("error"),
		"FlashInfo": c.Query("info"),
	})
}

// addPlate handles the add form. The web tier derives the letters and
// numbers components from the registration text and assigns the new id.
func (a *app) addPlate(c *gin.Context) {
	registration := c.PostForm("registration")
	letters, numbers := plate.SplitRegistration(registration)

	purchase, err1 := types.NewMoneyFromString(c.PostForm("purchasePrice"))
	sale, err2 := types.NewMoneyFromString(c.PostForm("salePrice"))
	if err1 != nil || err2 != nil {
		redirectWithError(c, "prices must be decimal numbers")
		return
	}

	payload := dto.PlatePayload{
		Registration:  registration,
		Letters:       letters,
		Numbers:       numbers,
		PurchasePrice: purchase,
		SalePrice:     sale,
	}

	created, err := a.client.Add(c.Request.Context(), id.New(), payload)
	if err != nil {
		a.log.Warnw("failed to add plate", "registration", registration, "error", err)
		redirectWithError(c, userMessage(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/?info="+url.QueryEscape("added "+created.Registration))
}

func (a *app) toggle(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		plateID, err := id.Parse(c.Param("id"))
		if err != nil {
			redirectWithError(c, "invalid plate id")
			return
		}

		if action == "reserve" {
			_, err = a.client.Reserve(c.Request.Context(), plateID)
		} else {
			_, err = a.client.Release(c.Request.Context(), plateID)
		}
		if err != nil {
			a.log.Warnw("failed to toggle reservation", "plate_id", plateID, "error", err)
			redirectWithError(c, userMessage(err))
			return
		}

		c.Redirect(http.StatusSeeOther, "/")
	}
}

func redirectWithError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(msg))
}

// userMessage keeps service error messages, hides transport ones.
func userMessage(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return "plate service unavailable"
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

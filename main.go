package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Set properties of the predefined Logger: a prefix so multi-service logs
	// stay attributable, no timestamp (the platform adds its own).
	log.SetPrefix("vitalog/go-api: ")
	log.SetFlags(0)

	// .env is optional in production; env vars win either way.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file, using environment as-is")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	uploader, err := newImageUploader(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to set up uploads: %v\n", err)
		os.Exit(1)
	}
	events, err := newEventPublisher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to event broker: %v\n", err)
		os.Exit(1)
	}
	if events != nil {
		defer events.close()
	}

	h := &Handler{
		db:          getDBPool(),
		jwtSecret:   []byte(jwtSecret),
		uploader:    uploader,
		events:      events,
		checkoutURL: os.Getenv("BILLING_CHECKOUT_URL"),
		portalURL:   os.Getenv("BILLING_PORTAL_URL"),
	}

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	router.Run(":" + port)
}

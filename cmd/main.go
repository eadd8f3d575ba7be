package main

import (
	"fmt"
	"os"

	"github.com/stagekit/stageplot-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	a.Log.Info("Starting server", "port", port)
	if err := a.Run(":" + port); err != nil {
		fmt.Printf("server exited: %v\n", err)
		os.Exit(1)
	}
}

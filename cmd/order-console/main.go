package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	app := mustBootstrapConsole()
	defer app.Close()

	if err := app.Run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}

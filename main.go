package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/stephenafamo/sentryscope/cmd"
	"github.com/stephenafamo/sentryscope/internal"
)

func main() {
	// Load env variables from a .env file if present
	err := godotenv.Overload(".env")
	if err != nil {
		// Ignore error if file is not present
		if !errors.Is(err, os.ErrNotExist) {
			panic(err)
		}
	}

	var settings = internal.Settings{}

	ctx := context.Background()

	if err := envconfig.Process(ctx, &settings); err != nil {
		panic(fmt.Errorf("error parsing config: %w", err))
	}

	if err := cmd.Execute(ctx, settings); err != nil {
		os.Exit(1)
	}
}

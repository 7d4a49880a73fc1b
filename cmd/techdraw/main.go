package main

import (
	"fmt"
	"os"

	"techdraw/internal/app"
	"techdraw/internal/config"
)

func main() {
	application, err := app.New(config.Load())
	if err != nil {
		fmt.Fprintf(os.Stderr, "techdraw failed: %v\n", err)
		os.Exit(1)
	}
	if len(os.Args) > 1 {
		application.OpenPath(os.Args[1])
	}
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "techdraw failed: %v\n", err)
		os.Exit(1)
	}
}

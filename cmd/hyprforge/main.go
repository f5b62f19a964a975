package main

import (
	"fmt"
	"os"

	"github.com/mrlinuxdude/hyprforge/internal/app"
	"github.com/mrlinuxdude/hyprforge/internal/cleanup"
)

func main() {
	err := app.Execute()
	cleanup.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"embed"
	"fmt"
	"os"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

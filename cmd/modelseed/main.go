// Command modelseed fills a database with fake instances of registered models.
package main

import (
	"fmt"
	"os"

	"modelseed/internal/apps"
	"modelseed/internal/cli"
	"modelseed/internal/models"
)

func main() {
	registry, err := apps.NewRegistry(
		apps.App{Name: models.AppName, Models: models.App()},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apps:", err)
		os.Exit(1)
	}
	cli.Execute(cli.Deps{Apps: registry})
}

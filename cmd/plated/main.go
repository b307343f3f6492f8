package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/orderrave/plated/app"
	"github.com/orderrave/plated/internal/app/bootstrap"
	"github.com/orderrave/plated/toolkit/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "service" {
		if err := runService(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}

// runService handles "plated service <action> [flags]". Flags given to
// install are stored and passed back when the manager runs the service.
func runService(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: plated service run|%v [flags]", service.Actions)
	}
	action := args[0]

	svc, err := service.New(service.NewProgram(bootstrap.Hooks), service.Config{
		Name:        "plated",
		DisplayName: "Plated",
		Description: "Plated landing page and waitlist signup.",
		Arguments:   append([]string{"service", "run"}, args[1:]...),
	})
	if err != nil {
		return err
	}
	return service.Control(svc, action)
}

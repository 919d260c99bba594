// Command tagd serves the tag API and runs the periodic maintenance jobs
// (letter resync, temperature decay, pending post processing).
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/feedtags-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("tagd: %v", err)
		os.Exit(1)
	}
}

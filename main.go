package main

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/app"
)

func main() {
	otpgate := app.New()
	<-otpgate.Start()

	ctx, cancel := context.WithTimeout(context.Background(), otpgate.ShutdownTimeout())
	defer cancel()

	otpgate.Stop(ctx)
	slog.Info("otpgate stopped")
}

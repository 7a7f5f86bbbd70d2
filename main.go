package main

import (
	"context"
	"fmt"

	"github.com/taskcore/taskmanager/internal/bootstrap"
	"github.com/taskcore/taskmanager/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, fmt.Sprintf("failed to initialize application: %v", err))
		panic(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, fmt.Sprintf("application failed: %v", err))
		panic(err)
	}
}

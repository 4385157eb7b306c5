// Command authsvc runs the identity issuance and RBAC service.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hasandag/auth-service/pkg/logger"
)

const version = "1.0.0"

// @title                       Auth Service API
// @version                     1.0
// @description                 Identity issuance and role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd := &cli.Command{
		Name:    "authsvc",
		Usage:   "Identity issuance and role-based access control service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run migrations (postgres), bootstrap roles and start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runServe(ctx)
				},
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations (postgres) or create indexes (mongo)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Value: false,
						Usage: "Roll back every postgres migration instead",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runMigrate(ctx, cmd.Bool("down"))
				},
			},
			{
				Name:  "bootstrap-roles",
				Usage: "Ensure every canonical role exists, then exit",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runBootstrap(ctx)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log := logger.Init(logger.Options{Service: "auth-service"})
		log.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}

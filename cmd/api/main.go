// @title           Tasker API
// @version         1.0
// @description     Per-user task tracker with ratings and status analytics.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        session_id
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	_ "Tasker/docs"
)

func main() {
	app := &cli.App{
		Name:   "tasker",
		Usage:  "Per-user task tracker API",
		Action: serve,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			hashPasswordCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("tasker")
	}
}

package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/clock"
	"github.com/smallbiznis/taller/internal/config"
	"github.com/smallbiznis/taller/internal/migration"
	"github.com/smallbiznis/taller/internal/observability"
	"github.com/smallbiznis/taller/internal/seed"
	"github.com/smallbiznis/taller/internal/server"
	"github.com/smallbiznis/taller/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

package main

import (
	"github.com/vmsocial/timeline/config"
	"github.com/vmsocial/timeline/models"
	"github.com/vmsocial/timeline/routes"
	"github.com/vmsocial/timeline/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.Author{},
		&models.Post{},
		&models.PostText{},
		&models.Event{},
		&models.EventAuthorLink{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

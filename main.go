package main

import (
	"GoVault/config"
	"GoVault/internal/handler"
	"GoVault/internal/repo"
	"GoVault/internal/service"
	"GoVault/internal/storage"
	"GoVault/router"
	"GoVault/utils"
	"log"
)

// main wires services together and starts the HTTP server.
func main() {
	config.InitConfig()
	db := repo.InitMysql()
	rdb := repo.InitRedis()
	store := storage.InitMinio()

	users := service.NewUsers(db)
	sessions := service.NewSessions(rdb, config.AppConfig.SessionTTL)
	reconciler := service.NewReconciler(db, store)
	files := service.NewFiles(
		db,
		store,
		config.AppConfig.BucketName,
		utils.NewFileListCache(rdb),
		reconciler,
	)

	h := handler.New(users, sessions, files)
	r := router.InitRouter(h)

	if err := r.Run(config.AppConfig.AppAddr); err != nil {
		log.Fatal("server stopped:", err)
	}
}

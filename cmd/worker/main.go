package main

import (
	"GoVault/config"
	"GoVault/internal/repo"
	"GoVault/internal/service"
	"GoVault/internal/storage"
	"GoVault/internal/worker"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	db := repo.InitMysql()
	rdb := repo.InitRedis()
	store := storage.InitMinio()

	reconciler := service.NewReconciler(db, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("reconcile worker started")
	if err := worker.RunReconcileWorker(ctx, reconciler, rdb); err != nil {
		log.Fatalf("reconcile worker stopped: %v", err)
	}
}

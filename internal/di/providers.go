package di

import (
	"time"

	"tempo/internal/domain/repository"
	"tempo/internal/engine"
	"tempo/internal/infrastructure/api"
	"tempo/internal/infrastructure/config"
	"tempo/internal/mutation"
	"tempo/internal/notify"
)

// Container holds all application dependencies
type Container struct {
	// Config
	Loader *config.Loader
	Config *config.Config

	// External task service
	TaskAPI repository.TaskAPI

	// Cache and notifications
	Store  *mutation.Store
	Center *notify.Center

	// Coordinators
	Mutations *mutation.Coordinator
	Drag      *engine.Coordinator
}

// Provider functions

func ProvideLoader() (*config.Loader, error) {
	return config.NewLoader()
}

func ProvideConfig(loader *config.Loader) (*config.Config, error) {
	return loader.Load()
}

func ProvideTaskAPI(cfg *config.Config) repository.TaskAPI {
	return api.NewClient(cfg)
}

func ProvideStore() *mutation.Store {
	return mutation.NewStore()
}

func ProvideNotifyCenter(cfg *config.Config) *notify.Center {
	ttl := time.Duration(cfg.Calendar.NotificationSeconds) * time.Second
	return notify.NewCenter(ttl)
}

package db

import (
	"fmt"
	"log"

	"coursehub-server-go/config"
)

// Open builds the store selected by cfg.StoreDriver.
func Open(cfg config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Printf("Using sqlite store at %s", cfg.SQLitePath)
		return openSQL("sqlite", cfg.SQLitePath)
	case config.DriverPostgres:
		log.Println("Using postgres store")
		return openSQL("postgres", cfg.DatabaseURL)
	case config.DriverFile:
		log.Printf("Using JSON file store in %s", cfg.DataDir)
		b, err := NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return NewDocStore(b), nil
	case config.DriverBolt:
		log.Printf("Using bolt store at %s", cfg.BoltPath)
		b, err := NewBoltBackend(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		return NewDocStore(b), nil
	case config.DriverRedis:
		client, err := InitializeRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewDocStore(NewRedisBackend(client, cfg.RedisPrefix)), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// openSQL keeps a failed open from surfacing as a non-nil Store.
func openSQL(driver, dsn string) (Store, error) {
	s, err := OpenSQL(driver, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

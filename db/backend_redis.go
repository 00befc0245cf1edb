package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces document keys: coursehub:{name} -> JSON document
const DefaultRedisPrefix = "coursehub:"

// RedisBackend keeps each document as a plain string key
type RedisBackend struct {
	Client *redis.Client
	prefix string
}

// NewRedisBackend creates a RedisBackend over an initialized client
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBackend{Client: client, prefix: prefix}
}

// Helper to generate document key
func (b *RedisBackend) key(name string) string {
	return b.prefix + name
}

func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.Client.Get(ctx, b.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Never written
		}
		log.Printf("Error reading document %s: %v", name, err)
		return nil, fmt.Errorf("failed to get document from Redis: %w", err)
	}
	return data, nil
}

// Write sets every document inside one MULTI/EXEC block
func (b *RedisBackend) Write(ctx context.Context, docs ...Document) error {
	_, err := b.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, doc := range docs {
			pipe.Set(ctx, b.key(doc.Name), doc.Data, 0)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error writing %d document(s): %v", len(docs), err)
		return fmt.Errorf("failed to write documents to Redis: %w", err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.Client.Close()
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}

	log.Printf("Successfully connected to Redis DB %d", db)
	return rdb, nil
}

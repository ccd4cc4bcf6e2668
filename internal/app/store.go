package app

import (
	"context"
	"fmt"
	"time"

	"Tasker/internal/config"
	"Tasker/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Tasks repo.TaskRepo
	Users repo.UserRepo
	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks that the backend is reachable.
func (s Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend's connections.
func (s Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// MemoryStore returns a Store that keeps everything in process.
func MemoryStore() Store {
	return Store{Tasks: repo.NewMemoryTaskRepo(), Users: repo.NewMemoryUserRepo()}
}

func newStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := newPostgres(ctx, cfg.PG)
		if err != nil {
			return Store{}, err
		}
		return Store{
			Tasks: repo.NewPGTaskRepo(pool),
			Users: repo.NewPGUserRepo(pool),
			ping:  pool.Ping,
			close: func(context.Context) error { pool.Close(); return nil },
		}, nil
	case config.DriverMongo:
		client, err := newMongo(ctx, cfg.Mongo)
		if err != nil {
			return Store{}, err
		}
		db := client.Database(cfg.Mongo.Database)
		tasks := repo.NewMongoTaskRepo(db)
		users := repo.NewMongoUserRepo(db)
		if err := tasks.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return Store{}, err
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return Store{}, err
		}
		return Store{
			Tasks: tasks,
			Users: users,
			ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
			close: client.Disconnect,
		}, nil
	case config.DriverMemory:
		return MemoryStore(), nil
	default:
		return Store{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newPostgres(ctx context.Context, cfg config.PGConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	pcfg.MaxConns = cfg.MaxConns
	pcfg.MinConns = cfg.MinConns
	pcfg.MaxConnIdleTime = 5 * time.Minute
	pcfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}
	return pool, nil
}

func newMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Package mentor provides an embedded client for the mentor learning
// assistant: knowledge-base chat, material recommendations, and interaction
// recording without running the HTTP server.
package mentor

import (
	"context"
	"fmt"
	"time"

	"github.com/edulab-cloud/mentor/internal/corpus"
	"github.com/edulab-cloud/mentor/internal/db"
	dbRedis "github.com/edulab-cloud/mentor/internal/db/redis"
	dbSqlite "github.com/edulab-cloud/mentor/internal/db/sqlite"
	"github.com/edulab-cloud/mentor/internal/domain"
	"github.com/edulab-cloud/mentor/internal/repository/ledger"
	chatuc "github.com/edulab-cloud/mentor/internal/usecase/chat"
	interactionuc "github.com/edulab-cloud/mentor/internal/usecase/interaction"
	recommenduc "github.com/edulab-cloud/mentor/internal/usecase/recommend"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the mentor SDK entry point.
type Client struct {
	store        db.Store
	catalog      *corpus.Catalog
	chatSvc      *chatuc.Service
	recommendSvc *recommenduc.Service
	recordSvc    *interactionuc.Service
}

// New creates a mentor Client: it connects the ledger store, loads the
// corpus, and builds the similarity index.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mentor: ledger store not ready: %w", err)
	}

	cat, err := corpus.Load(cfg.kbPath, cfg.materialsPath)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("mentor: %w", err)
	}

	index := chatuc.BuildIndex(cat.Questions())
	repo := ledger.New(store, cfg.keyPrefix)

	return &Client{
		store:        store,
		catalog:      cat,
		chatSvc:      chatuc.New(index, cat.Entries, cfg.threshold, repo, cfg.logger),
		recommendSvc: recommenduc.New(cat.Materials, repo, repo, cfg.logger),
		recordSvc:    interactionuc.New(repo, cat, cfg.logger),
	}, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("mentor: create redis store: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSqlite.NewStore(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("mentor: create sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("mentor: unknown driver %q", cfg.driver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks ledger store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Chat answers a free-text message against the knowledge base and logs the
// resolution to the ledger.
func (c *Client) Chat(ctx context.Context, userID, message string) (ChatResult, error) {
	if message == "" {
		return ChatResult{}, fmt.Errorf("mentor: message is required: %w", domain.ErrInvalidInput)
	}
	return chatResultFrom(c.chatSvc.Chat(ctx, orAnonymous(userID), message)), nil
}

// Recommend returns up to num materials for the user.
func (c *Client) Recommend(ctx context.Context, userID string, num int) ([]Material, error) {
	recs, err := c.recommendSvc.Recommend(ctx, orAnonymous(userID), num)
	if err != nil {
		return nil, fmt.Errorf("mentor: %w", err)
	}
	return materialsFrom(recs), nil
}

// RecordInteraction registers that a user viewed a material.
func (c *Client) RecordInteraction(ctx context.Context, userID, materialID string) error {
	if err := c.recordSvc.Record(ctx, orAnonymous(userID), materialID); err != nil {
		return fmt.Errorf("mentor: %w", err)
	}
	return nil
}

func orAnonymous(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

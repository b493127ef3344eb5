// cmd/studioctl/context.go
package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/omstudio/studio-ops/internal/config"
	"github.com/omstudio/studio-ops/internal/database"
	"github.com/omstudio/studio-ops/internal/logger"
	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/services"
)

type commandContext struct {
	actorID string
	role    string

	configOnce sync.Once
	cfg        *config.Config
	configErr  error

	openOnce sync.Once
	db       *gorm.DB
	ownsDB   bool
	engine   *services.Engine
	openErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// withDB returns a context bound to an already open database. The caller keeps
// ownership of the handle.
func withDB(db *gorm.DB, cfg *config.Config) *commandContext {
	return &commandContext{db: db, cfg: cfg}
}

func defaultActorID() string {
	if id := strings.TrimSpace(os.Getenv("STUDIOCTL_ACTOR")); id != "" {
		return id
	}
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return user
	}
	return "studioctl"
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.cfg != nil {
			return
		}
		cfg, err := config.Load()
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		logger.Setup(cfg.Log)
		c.cfg = cfg
	})
	return c.cfg, c.configErr
}

func (c *commandContext) open() (*gorm.DB, error) {
	c.openOnce.Do(func() {
		if _, err := c.loadConfig(); err != nil {
			c.openErr = err
			return
		}
		if c.db == nil {
			db, err := database.Initialize(c.cfg.Database)
			if err != nil {
				c.openErr = err
				return
			}
			c.db = db
			c.ownsDB = true
		}
		c.engine = services.NewEngine(c.db)
	})
	return c.db, c.openErr
}

func (c *commandContext) ensureEngine() (*services.Engine, error) {
	if _, err := c.open(); err != nil {
		return nil, err
	}
	return c.engine, nil
}

func (c *commandContext) actor() (models.Actor, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(c.role)))
	if role != models.RoleAdmin && role != models.RoleCreator {
		return models.Actor{}, fmt.Errorf("unknown role %q: use admin or creator", c.role)
	}
	id := strings.TrimSpace(c.actorID)
	if id == "" {
		return models.Actor{}, fmt.Errorf("--as must name an operator")
	}
	return models.Actor{ID: id, Role: role}, nil
}

func (c *commandContext) close() error {
	if c.ownsDB && c.db != nil {
		database.Close(c.db)
		c.db = nil
		c.ownsDB = false
	}
	return nil
}

func (c *commandContext) engineAndActor() (*services.Engine, models.Actor, error) {
	actor, err := c.actor()
	if err != nil {
		return nil, models.Actor{}, err
	}
	engine, err := c.ensureEngine()
	if err != nil {
		return nil, models.Actor{}, err
	}
	return engine, actor, nil
}

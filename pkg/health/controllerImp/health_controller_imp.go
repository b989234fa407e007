package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCtrl struct {
	db    *gorm.DB
	index Pinger
}

func NewHealthCtrl(db *gorm.DB, index Pinger) *HealthCtrl { return &HealthCtrl{db: db, index: index} }

type sub struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbCheck := h.checkDB(ctx)
	idxCheck := sub{OK: true}
	if h.index != nil {
		if err := h.index.Ping(ctx); err != nil {
			idxCheck = sub{OK: false, Err: err.Error()}
		}
	}

	allOK := dbCheck.OK && idxCheck.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database":     dbCheck,
			"vector_index": idxCheck,
		},
		"time": time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}

func (h *HealthCtrl) checkDB(ctx context.Context) sub {
	if h.db == nil {
		return sub{OK: false, Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{OK: false, Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{OK: false, Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}

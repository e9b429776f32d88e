// Package routes exposes the collections over HTTP.
package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoangnguyenba/webapi/pkg/db"
	"github.com/hoangnguyenba/webapi/pkg/entity"
	"github.com/hoangnguyenba/webapi/pkg/errcode"
	"github.com/hoangnguyenba/webapi/pkg/reply"
)

// collection is the part of db.Collection the handlers need.
type collection[T any] interface {
	Get(ctx context.Context, ids []int32) ([]T, error)
	Add(ctx context.Context, items []T) db.Outcome
	Modify(ctx context.Context, items []T) db.Outcome
	Remove(ctx context.Context, ids []int32) db.Outcome
}

type Routes struct {
	provider *db.Provider
	mapper   *reply.Mapper
	logger   *slog.Logger
}

func NewRoutes(p *db.Provider, logger *slog.Logger) *Routes {
	if logger == nil {
		logger = slog.Default()
	}
	return &Routes{
		provider: p,
		mapper:   reply.NewMapper(p.Names),
		logger:   logger.With("component", "routes"),
	}
}

// Register mounts every collection on router.
func (r *Routes) Register(router gin.IRouter) {
	registerCollection[entity.Car](router, "/cars", r, r.provider.Cars, nil)
	registerCollection[entity.User](router, "/users", r, r.provider.Users, hidePassword)
	registerCollection[entity.Subscription](router, "/subscriptions", r, r.provider.Subscriptions, nil)
	router.GET("/errors", list[entity.ErrorDef](r, r.provider.Errors, nil))
}

func registerCollection[T any](router gin.IRouter, path string, r *Routes, c collection[T], view func(*T)) {
	router.GET(path, list(r, c, view))
	router.POST(path, add(r, c))
	router.PUT(path, modify(r, c))
	router.DELETE(path, remove(r, c))
}

func list[T any](r *Routes, c collection[T], view func(*T)) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ids, err := parseIDs(gctx.QueryArray("ids"))
		if err != nil {
			r.fail(gctx, errcode.Wrap(errcode.InvalidRequestError, err))
			return
		}

		items, err := c.Get(gctx.Request.Context(), ids)
		if err != nil {
			r.fail(gctx, err)
			return
		}
		if view != nil {
			for i := range items {
				view(&items[i])
			}
		}
		gctx.JSON(http.StatusOK, items)
	}
}

func add[T any](r *Routes, c collection[T]) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var items []T
		if err := gctx.ShouldBindJSON(&items); err != nil {
			r.fail(gctx, errcode.Wrap(errcode.InvalidRequestError, err))
			return
		}
		out := c.Add(gctx.Request.Context(), items)
		gctx.JSON(StatusFor(out.Code), r.mapper.FromAddOutcome(out))
	}
}

func modify[T any](r *Routes, c collection[T]) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var items []T
		if err := gctx.ShouldBindJSON(&items); err != nil {
			r.fail(gctx, errcode.Wrap(errcode.InvalidRequestError, err))
			return
		}
		out := c.Modify(gctx.Request.Context(), items)
		gctx.JSON(StatusFor(out.Code), r.mapper.FromOutcome(out))
	}
}

func remove[T any](r *Routes, c collection[T]) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var ids []int32
		if err := gctx.ShouldBindJSON(&ids); err != nil {
			r.fail(gctx, errcode.Wrap(errcode.InvalidRequestError, err))
			return
		}
		out := c.Remove(gctx.Request.Context(), ids)
		gctx.JSON(StatusFor(out.Code), r.mapper.FromOutcome(out))
	}
}

func (r *Routes) fail(gctx *gin.Context, err error) {
	rep := r.mapper.FromError(err)
	if rep.ErrorCode == errcode.InvalidRequestError {
		r.logger.Info("rejected request", "path", gctx.FullPath(), "error", err)
	} else {
		r.logger.Error("request failed", "path", gctx.FullPath(), "error", err)
	}
	gctx.JSON(StatusFor(rep.ErrorCode), rep)
}

// StatusFor maps an error code onto an HTTP status.
func StatusFor(code errcode.Code) int {
	switch code {
	case errcode.OK:
		return http.StatusOK
	case errcode.NotFoundError:
		return http.StatusNotFound
	case errcode.InvalidRequestError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIDs accepts ids=1,2,3 as well as repeated ids parameters. No parameter means no
// filter and returns nil.
func parseIDs(values []string) ([]int32, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]int32, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid id %q: %w", part, err)
			}
			ids = append(ids, int32(id))
		}
	}
	return ids, nil
}

func hidePassword(u *entity.User) {
	u.Password = ""
}

// NewEngine returns a gin engine with request logging, panic recovery and the collection
// routes.
func NewEngine(p *db.Provider, logger *slog.Logger) *gin.Engine {
	logFormatter := func(param gin.LogFormatterParams) string {
		var statusColor, methodColor, resetColor string
		if param.IsOutputColor() {
			statusColor = param.StatusCodeColor()
			methodColor = param.MethodColor()
			resetColor = param.ResetColor()
		}

		if param.Latency > time.Minute {
			param.Latency = param.Latency.Truncate(time.Second)
		}
		return fmt.Sprintf("[webapi] %v |%s %3d %s| %13v | %15s |%s %-7s %s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			statusColor, param.StatusCode, resetColor,
			param.Latency,
			param.ClientIP,
			methodColor, param.Method, resetColor,
			param.Path,
			param.ErrorMessage,
		)
	}

	engine := gin.New()
	engine.Use(gin.LoggerWithFormatter(logFormatter), gin.Recovery())
	NewRoutes(p, logger).Register(engine)
	return engine
}

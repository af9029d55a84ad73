package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

type crudStore[T any] interface {
	Create(ctx context.Context, item *T) error
	Get(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, params service.ListParams) (*service.List[T], error)
	Update(ctx context.Context, id uint, item *T, omit ...string) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type baseResetter interface {
	ResetBase()
}

// mountCRUD registers list, get, create, update and delete routes for one
// resource, guarded by the policy.
func mountCRUD[T any](g *echo.Group, path string, store crudStore[T], p auth.Policy, res auth.Resource, identity echo.MiddlewareFunc) {
	read := []echo.MiddlewareFunc{identity, auth.Require(p, res, auth.ActionRead)}
	write := []echo.MiddlewareFunc{identity, auth.Require(p, res, auth.ActionWrite)}

	g.GET(path, func(c echo.Context) error {
		params, err := listParams(c)
		if err != nil {
			return err
		}
		list, err := store.List(c.Request().Context(), params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}, read...)

	g.GET(path+"/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		item, err := store.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, item)
	}, read...)

	g.POST(path, func(c echo.Context) error {
		item, err := bindItem[T](c)
		if err != nil {
			return err
		}
		if err := store.Create(c.Request().Context(), item); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, item)
	}, write...)

	g.PUT(path+"/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		item, err := bindItem[T](c)
		if err != nil {
			return err
		}
		updated, err := store.Update(c.Request().Context(), id, item)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, updated)
	}, write...)

	g.DELETE(path+"/:id", func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		if err := store.Delete(c.Request().Context(), id); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}, write...)
}

func bindItem[T any](c echo.Context) (*T, error) {
	item := new(T)
	if err := (&echo.DefaultBinder{}).BindBody(c, item); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalid, err)
	}
	if r, ok := any(item).(baseResetter); ok {
		r.ResetBase()
	}
	return item, nil
}

func parseID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", service.ErrInvalid, raw)
	}
	return uint(id), nil
}

func listParams(c echo.Context) (service.ListParams, error) {
	var p service.ListParams
	for name, dst := range map[string]*int{"page": &p.Page, "page_size": &p.PageSize} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("%w: invalid %s %q", service.ErrInvalid, name, raw)
		}
		*dst = n
	}
	return p, nil
}

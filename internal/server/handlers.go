package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/models"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

// attachment sends a generated document as a download.
func attachment(c echo.Context, doc *service.Document) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	h.Set(echo.HeaderContentLength, strconv.Itoa(len(doc.Content)))
	return c.Blob(http.StatusOK, doc.MimeType, doc.Content)
}

func (s *Server) about(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":   s.chapter.Name,
		"number": s.chapter.Number,
		"city":   s.chapter.City,
		"about":  s.chapter.About,
	})
}

func (s *Server) publicMembers(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return err
	}
	params.Filters = map[string]interface{}{"public": true}
	list, err := s.registry.Members.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) publicNews(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return err
	}
	params.Filters = map[string]interface{}{"published": true}
	list, err := s.registry.News.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) publicNewsItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	n, err := s.registry.News.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !n.Published {
		return fmt.Errorf("%w: news %d", service.ErrNotFound, id)
	}
	return c.JSON(http.StatusOK, n)
}

func (s *Server) submitJoinRequest(c echo.Context) error {
	req, err := bindItem[models.JoinRequest](c)
	if err != nil {
		return err
	}
	req.Status = "pendente"
	if err := s.registry.JoinRequests.Create(c.Request().Context(), req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, req)
}

func (s *Server) me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.FromContext(c))
}

func (s *Server) publishAta(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	a, err := s.registry.Atas.Publish(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) ataPDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doc, err := s.reports.AtaPDF(c.Request().Context(), auth.FromContext(c), id)
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func (s *Server) ataDOCX(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doc, err := s.reports.AtaDOCX(c.Request().Context(), auth.FromContext(c), id)
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func (s *Server) rollCallPDF(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doc, err := s.reports.RollCallPDF(c.Request().Context(), auth.FromContext(c), id)
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func (s *Server) ledgerPDF(c echo.Context) error {
	from, err := parseDate(c, "from")
	if err != nil {
		return err
	}
	to, err := parseDate(c, "to")
	if err != nil {
		return err
	}
	doc, err := s.reports.LedgerPDF(c.Request().Context(), auth.FromContext(c), from, to)
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func parseDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", service.ErrInvalid, name, raw)
	}
	return t, nil
}

func (s *Server) listTemplates(c echo.Context) error {
	list, err := s.reports.Templates(c.Request().Context(), auth.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": list,
		"count":     len(list),
	})
}

func (s *Server) generateTemplate(c echo.Context) error {
	doc, err := s.reports.GenerateTemplate(c.Request().Context(), auth.FromContext(c), c.Param("key"))
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func (s *Server) listDocuments(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return err
	}
	list, err := s.reports.ListDocuments(c.Request().Context(), auth.FromContext(c), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) downloadDocument(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	doc, err := s.reports.OpenDocument(c.Request().Context(), auth.FromContext(c), id)
	if err != nil {
		return err
	}
	return attachment(c, doc)
}

func (s *Server) deleteDocument(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := s.reports.DeleteDocument(c.Request().Context(), auth.FromContext(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

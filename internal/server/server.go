// Package server serves the browser UI for a selection session.
//
// The page lists the numbered files of the session's index. Typing a selection
// expression posts it to /parse, which answers with the matching positions.
// Pressing apply posts the checked positions to /apply, which writes the dump
// and ends the session; Serve returns once the response has been sent.
package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/hayeah/ctxdump"
	"github.com/hayeah/ctxdump/internal/selection"
)

//go:embed templates static
var assets embed.FS

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end of a Session.
type Server struct {
	Session *ctxdump.Session
	Logger  *slog.Logger

	echo     *echo.Echo
	listener net.Listener
}

// PageData is embedded into the index page as JSON.
type PageData struct {
	RootPath string   `json:"rootPath"`
	Files    []string `json:"files"`
}

type parseRequest struct {
	Text string `json:"text"`
}

type applyRequest struct {
	SelectedIndices json.RawMessage `json:"selected_indices"`
}

// ParseResponse answers a successful /parse with 0-based positions.
type ParseResponse struct {
	Status          string `json:"status"`
	SelectedIndices []int  `json:"selected_indices"`
}

// ApplyResponse answers a successful /apply.
type ApplyResponse struct {
	Status string `json:"status"`
	Output string `json:"output"`
}

// ErrorResponse is returned by /parse and /apply on failure. Kind is set for
// selection errors.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
}

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// New creates a Server for session.
func New(session *ctxdump.Session, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{templates: tmpl}
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())

	s := &Server{
		Session: session,
		Logger:  logger,
		echo:    e,
	}

	e.GET("/", s.handleIndex)
	e.GET("/api/files", s.handleFiles)
	e.POST("/parse", s.handleParse)
	e.POST("/apply", s.handleApply)
	e.GET("/static/*", echo.WrapHandler(http.FileServer(http.FS(assets))))

	return s, nil
}

// Handler exposes the routes for use with net/http.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Listen binds addr. The returned URL points at the index page.
func (s *Server) Listen(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.echo.Listener = ln
	return "http://" + ln.Addr().String() + "/", nil
}

// Serve runs the server until the session is applied, ctx is cancelled, or
// the listener fails. Listen must be called first.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	errc := make(chan error, 1)
	go func() {
		errc <- s.echo.Start("")
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-s.Session.Done():
		s.Logger.Debug("selection applied, shutting down")
	case <-ctx.Done():
		s.Logger.Debug("context done, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) pageData() PageData {
	return PageData{
		RootPath: s.Session.Root,
		Files:    s.Session.Files(),
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", s.pageData())
}

func (s *Server) handleFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, s.pageData())
}

func (s *Server) handleParse(c echo.Context) error {
	var req parseRequest
	if err := decodeBody(c.Request().Body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(err))
	}

	files, err := s.Session.Parse(req.Text)
	if err != nil {
		return c.JSON(http.StatusOK, errorResponse(err))
	}

	return c.JSON(http.StatusOK, ParseResponse{
		Status:          "ok",
		SelectedIndices: nonNil(s.Session.Indices(files)),
	})
}

func (s *Server) handleApply(c echo.Context) error {
	var req applyRequest
	if err := decodeBody(c.Request().Body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(err))
	}

	indices, err := decodeIndices(req.SelectedIndices)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(err))
	}

	files, err := s.Session.FilesAt(indices)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse(err))
	}

	if err := s.Session.Apply(files); err != nil {
		if errors.Is(err, ctxdump.ErrAlreadyApplied) {
			return c.JSON(http.StatusConflict, errorResponse(err))
		}
		return c.JSON(http.StatusInternalServerError, errorResponse(err))
	}

	return c.JSON(http.StatusOK, ApplyResponse{Status: "ok", Output: s.Session.Output})
}

// decodeBody reads a JSON object from body. An empty body decodes as {}.
func decodeBody(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decodeIndices accepts a missing or null value as an empty list. Anything
// other than an array of integers is rejected.
func decodeIndices(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var values []any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, errors.New("invalid indices")
	}

	indices := make([]int, 0, len(values))
	for _, v := range values {
		num, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("index must be an integer: %v", v)
		}
		n, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("index must be an integer: %s", num)
		}
		indices = append(indices, int(n))
	}
	return indices, nil
}

func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Status: "error", Error: err.Error()}
	var selErr *selection.Error
	if errors.As(err, &selErr) {
		resp.Kind = selErr.Kind.String()
	}
	return resp
}

func nonNil(indices []int) []int {
	if indices == nil {
		return []int{}
	}
	return indices
}

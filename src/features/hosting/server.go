package hosting

import (
	"fmt"
	"log/slog"

	"github.com/contre95/soullyrics/src/features/chords"
	"github.com/contre95/soullyrics/src/features/config"
	"github.com/contre95/soullyrics/src/features/enrich"
	"github.com/contre95/soullyrics/src/features/lyrics"
	"github.com/contre95/soullyrics/src/features/metrics"
	"github.com/contre95/soullyrics/src/features/nowplaying"
	"github.com/gofiber/fiber/v2"
)

// Services groups what the HTTP API exposes. Nil services leave their routes out.
type Services struct {
	Lyrics     *lyrics.Service
	Chords     *chords.Service
	Enrich     *enrich.Service
	NowPlaying *nowplaying.Watcher
	Metrics    *metrics.Service
}

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, services Services) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("Internal Server Error", "error", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
		AppName:               "Soullyrics",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	config.RegisterRoutes(app, cfg)
	if services.Lyrics != nil {
		lyrics.RegisterRoutes(app, lyrics.NewHandler(services.Lyrics))
	}
	if services.Chords != nil {
		chords.RegisterRoutes(app, chords.NewHandler(services.Chords))
	}
	if services.Enrich != nil {
		enrich.RegisterRoutes(app, enrich.NewHandler(services.Enrich))
	}
	if services.NowPlaying != nil {
		nowplaying.RegisterRoutes(app, nowplaying.NewHandler(services.NowPlaying))
	}
	if services.Metrics != nil && cfg.Get().Metrics.Enabled {
		metrics.RegisterRoutes(app, metrics.NewHandler(services.Metrics))
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "port", s.port)
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

package main

import (
	"context"
	"errors"
	"html/template"
	"math/rand/v2"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/analytics"
	"github.com/Zachkp/folio/internal/cms"
	"github.com/Zachkp/folio/internal/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/logging"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/render"
	"github.com/Zachkp/folio/internal/widget"
)

const requestIDHeader = "X-Request-ID"

type server struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   *cms.Client
	composer *page.Composer
	tmpl     *template.Template
	contact  *contact.Service
	store    *analytics.Store
	admin    *adminAuth

	typewriterTiming widget.Timing
	waveFPS          int
	newWave          func(width, height int) *widget.Wave
}

// newServer wires the CMS client, composer and contact flow. store may be
// nil, in which case visits are not recorded and admin routes stay off.
func newServer(cfg *config.Config, logger *zap.Logger, store *analytics.Store) (*server, error) {
	logger = logging.OrNop(logger)

	client := cms.New(cms.Options{
		BaseURL:    cfg.CMS.URL,
		Token:      cfg.CMS.Token,
		HTTPClient: &http.Client{Timeout: cfg.CMS.Timeout},
		Cache:      cms.NewCache(nil),
		Revalidate: cfg.CMS.Revalidate,
		Logger:     logger,
	})

	tmpl, err := render.Templates(client.MediaURL)
	if err != nil {
		return nil, err
	}

	composer := page.NewComposer(client, render.DefaultRegistry(tmpl),
		page.WithTimeout(cfg.CMS.Timeout),
		page.WithLogger(logger))

	contactOpts := []contact.Option{contact.WithLogger(logger), contact.WithTimeout(cfg.CMS.Timeout)}
	if cfg.SMTP.Enabled() {
		contactOpts = append(contactOpts, contact.WithNotifier(contact.NewMailNotifier(cfg.SMTP)))
	}
	if store != nil {
		contactOpts = append(contactOpts, contact.WithRecorder(store))
	}

	s := &server{
		cfg:              cfg,
		logger:           logger,
		client:           client,
		composer:         composer,
		tmpl:             tmpl,
		contact:          contact.NewService(client, contactOpts...),
		store:            store,
		typewriterTiming: widget.DefaultTiming,
		waveFPS:          config.ClampWaveFPS(cfg.Widgets.WaveFPS),
		newWave: func(width, height int) *widget.Wave {
			return widget.NewWave(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), width, height)
		},
	}

	if store != nil && cfg.Admin.Enabled() {
		s.admin, err = newAdminAuth(cfg.Admin, store, logger)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger))
	if s.store != nil {
		r.Use(s.store.Middleware())
	}
	r.SetHTMLTemplate(s.tmpl)

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)

	// HTMX contact form endpoint, returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact-form.html", gin.H{"title": "Contact Me"})
	})
	r.POST("/contact", s.handleContact)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})

	widgets := r.Group("/widgets")
	widgets.GET("/typewriter", s.handleTypewriter)
	widgets.GET("/wave", s.handleWave)
	widgets.GET("/wave.svg", s.handleWaveSVG)

	content := r.Group("/content")
	content.GET("/projects", s.handleProjects)
	content.GET("/projects/featured", s.handleFeaturedProjects)
	content.GET("/projects/:id", s.handleProject)
	content.GET("/technologies", s.handleTechnologies)
	content.GET("/profile", s.handleProfile)

	if s.admin != nil {
		s.setupAdminRoutes(r)
	}
	return r
}

type indexView struct {
	Header   *cms.HeaderDocument
	Footer   *cms.FooterDocument
	Sections []page.Section
}

func (s *server) handleIndex(c *gin.Context) {
	p := s.composer.Compose(c.Request.Context())
	c.HTML(http.StatusOK, "index.html", indexView{
		Header:   p.Header,
		Footer:   p.Footer,
		Sections: p.RenderSections(s.logger),
	})
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"cms":       s.client.Configured(),
		"analytics": s.store != nil,
	})
}

// Handle contact form submission with HTMX. Both outcomes are 200 so the
// fragment is swapped into the page.
func (s *server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.logger.Debug("invalid contact form", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"status": contact.StatusError.String(),
			"error":  contact.InvalidMessage,
		})
		return
	}

	switch status := s.contact.Submit(c.Request.Context(), form); status {
	case contact.StatusSuccess:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"status":  status.String(),
			"success": contact.SuccessMessage,
		})
	default:
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"status": status.String(),
			"error":  contact.ErrorMessage,
		})
	}
}

func (s *server) handleProjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.client.Projects(c.Request.Context()))
}

func (s *server) handleFeaturedProjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.client.FeaturedProjects(c.Request.Context()))
}

func (s *server) handleProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}

	project := s.client.Project(c.Request.Context(), id)
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *server) handleTechnologies(c *gin.Context) {
	c.JSON(http.StatusOK, s.client.TechnologyCategories(c.Request.Context()))
}

func (s *server) handleProfile(c *gin.Context) {
	profile := s.client.Profile(c.Request.Context())
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := analytics.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	cleanup, err := store.ScheduleCleanup("@daily", analytics.DefaultRetention)
	if err != nil {
		return err
	}
	defer cleanup.Stop()

	s, err := newServer(cfg, logger, store)
	if err != nil {
		return err
	}
	if s.admin == nil {
		logger.Info("admin routes disabled, set ADMIN_USERNAME and ADMIN_PASSWORD to enable them")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Widget streams stay open until their request context ends, so request
	// contexts derive from ctx to let Shutdown drain them.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"qa-forum-web/internal/api"
	"qa-forum-web/internal/service"
	"qa-forum-web/internal/session"
)

const (
	sessionKey = "session"
	adminRole  = "admin"
)

// Options tunes view behaviour.
type Options struct {
	// RegisterRedirect is how long the registration success notice stays up
	// before the browser moves on to the login page.
	RegisterRedirect time.Duration
	// SecureCookies marks the flash cookie Secure.
	SecureCookies bool
}

// Handler wires HTTP routes to the forum views.
type Handler struct {
	questions service.QuestionService
	auth      service.AuthService
	sessions  *session.Manager
	logger    *logrus.Logger
	templates *template.Template
	opts      Options
}

func NewHandler(questions service.QuestionService, auth service.AuthService, sessions *session.Manager, logger *logrus.Logger, opts Options) (*Handler, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	if opts.RegisterRedirect <= 0 {
		opts.RegisterRedirect = 2 * time.Second
	}
	return &Handler{
		questions: questions,
		auth:      auth,
		sessions:  sessions,
		logger:    logger,
		templates: tmpl,
		opts:      opts,
	}, nil
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(h.templates)
	router.Use(requestLogger(h.logger), h.loadSession())

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.GET("/", h.listQuestions)
	router.GET("/ask", h.askForm)
	router.POST("/ask", h.createQuestion)

	questions := router.Group("/questions/:id")
	{
		questions.GET("", h.questionDetail)
		questions.POST("/update", h.updateQuestion)
		questions.POST("/delete", h.deleteQuestion)
		questions.POST("/answers", h.submitAnswer)
	}
	router.POST("/answers/:id/vote", h.vote)

	admin := router.Group("/admin", h.requireRole(adminRole))
	admin.GET("", h.adminPanel)

	router.GET("/login", h.publicOnly(), h.loginForm)
	router.POST("/login", h.login)
	router.GET("/register", h.publicOnly(), h.registerForm)
	router.POST("/register", h.register)
	router.POST("/logout", h.logout)

	router.NoRoute(h.notFound)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

// loadSession resolves the browser's session once per request; every view
// reads it from the gin context.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, h.sessions.Load(c.Writer, c.Request))
		c.Next()
	}
}

// requireRole sends anyone whose decoded identity lacks role back home. The
// backend still authorizes every call made from the guarded view.
func (h *Handler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).HasRole(role) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// publicOnly sends signed-in visitors home from pages meant for anonymous ones.
// The form posts stay open so a new login can replace the current session.
func (h *Handler) publicOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c).Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return &session.Session{}
}

// loadConcurrently runs independent reads side by side. A failed read is
// logged and leaves only its own data empty.
func (h *Handler) loadConcurrently(c *gin.Context, loads map[string]func(context.Context) error) {
	ctx := c.Request.Context()
	var g errgroup.Group
	for name, load := range loads {
		g.Go(func() error {
			if err := load(ctx); err != nil {
				h.logger.WithError(err).WithField("query", name).Error("fetch failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

// fail logs a rejected action and leaves a one-time notice for the next view.
func (h *Handler) fail(c *gin.Context, err error, action, notice string) {
	h.setFlash(c, flashError, h.failureNotice(err, action, notice))
}

func (h *Handler) failureNotice(err error, action, notice string) string {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	h.logger.WithError(err).WithFields(logrus.Fields{
		"action": action,
		"status": api.StatusCode(err),
	}).Error("backend call failed")
	if msg := api.Message(err); msg != "" {
		return notice + " " + msg
	}
	return notice
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", "Not found", gin.H{})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, key string) int64 {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// safeRedirect keeps redirects on this site.
func safeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return fallback
	}
	return target
}

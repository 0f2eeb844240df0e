package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"qa-forum-web/internal/api"
	"qa-forum-web/internal/domain"
	"qa-forum-web/internal/service"
)

const (
	loginFailed       = "Login failed. Please check your credentials and try again."
	loginSucceeded    = "Successfully logged in!"
	registerFailed    = "Registration failed. Please try again."
	registerSucceeded = "Successfully registered! Now log in."
)

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", "Login", gin.H{"Email": ""})
}

// login leaves any existing session in place when the backend refuses.
func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusUnprocessableEntity, "login", "Login", gin.H{"Email": form.Email, "Error": bindMessage(err)})
		return
	}

	ctx := c.Request.Context()
	result, err := h.auth.Login(ctx, domain.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		h.logger.WithError(err).WithField("status", api.StatusCode(err)).Warn("Error logging in")
		h.render(c, http.StatusUnauthorized, "login", "Login", gin.H{"Email": form.Email, "Error": loginFailed})
		return
	}

	if _, err := h.sessions.Start(ctx, c.Writer, c.Request, result.Token, result.UserInfo); err != nil {
		h.logger.WithError(err).Error("persist session")
		h.render(c, http.StatusInternalServerError, "login", "Login", gin.H{"Email": form.Email, "Error": loginFailed})
		return
	}

	h.setFlash(c, flashSuccess, loginSucceeded)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.logger.WithError(err).Warn("end session")
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) registerForm(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, registerForm{}, "")
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, http.StatusUnprocessableEntity, form, bindMessage(err))
		return
	}

	err := h.auth.Register(c.Request.Context(), domain.Registration{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.renderRegister(c, http.StatusUnprocessableEntity, form, verr.Message)
			return
		}
		h.logger.WithError(err).WithField("status", api.StatusCode(err)).Warn("Error registering")
		msg := api.Message(err)
		if msg == "" {
			msg = registerFailed
		}
		h.renderRegister(c, http.StatusUnprocessableEntity, form, msg)
		return
	}

	h.render(c, http.StatusOK, "register", "Register", gin.H{
		"Success": registerSucceeded,
		"Refresh": refreshTo("/login", h.opts.RegisterRedirect),
	})
}

func (h *Handler) renderRegister(c *gin.Context, status int, form registerForm, errMsg string) {
	h.render(c, status, "register", "Register", gin.H{
		"Username": form.Username,
		"Email":    form.Email,
		"Error":    errMsg,
	})
}

// refreshTo builds a meta refresh tag. The target is always a fixed local path.
func refreshTo(target string, after time.Duration) template.HTML {
	return template.HTML(fmt.Sprintf(`<meta http-equiv="refresh" content="%d;url=%s">`,
		int(after.Seconds()), template.HTMLEscapeString(target)))
}

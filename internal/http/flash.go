package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie  = "forum_flash"
	flashSuccess = "success"
	flashError   = "error"
)

// flash is a notice shown exactly once, on the next rendered page.
type flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

func (f *flash) Error() bool {
	return f != nil && f.Kind == flashError
}

func (h *Handler) setFlash(c *gin.Context, kind, message string) {
	raw, err := json.Marshal(flash{Kind: kind, Message: message})
	if err != nil {
		h.logger.WithError(err).Warn("encode flash")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 300, "/", "", h.opts.SecureCookies, true)
}

// popFlash reads the pending notice and clears it so a refresh or
// back-navigation does not show it again.
func (h *Handler) popFlash(c *gin.Context) *flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.opts.SecureCookies, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

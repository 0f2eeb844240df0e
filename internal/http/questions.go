package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-forum-web/internal/domain"
	"qa-forum-web/internal/service"
)

// listTitleMax caps the inline edit field on the list view.
const listTitleMax = 40

func (h *Handler) listQuestions(c *gin.Context) {
	var (
		questions  []domain.Question
		categories []domain.Category
	)
	h.loadConcurrently(c, map[string]func(context.Context) error{
		"questions": func(ctx context.Context) (err error) {
			questions, err = h.questions.ListNewestFirst(ctx)
			return err
		},
		"categories": func(ctx context.Context) (err error) {
			categories, err = h.questions.Categories(ctx)
			return err
		},
	})

	sess := currentSession(c)
	var edit *editForm
	if id := queryID(c, "edit"); id > 0 {
		// only the owner's rows turn into forms here
		if q, ok := findQuestion(questions, id); ok && sess.Owns(q.UserID) {
			edit = &editForm{
				Action:     fmt.Sprintf("/questions/%d/update", id),
				Next:       "/",
				Back:       fmt.Sprintf("/?edit=%d", id),
				CancelURL:  "/",
				TitleMax:   listTitleMax,
				Form:       questionFormFrom(q),
				Categories: categories,
			}
		}
	}

	h.render(c, http.StatusOK, "questions", "Questions", gin.H{
		"Questions": questions,
		"Edit":      edit,
		"EditID":    queryID(c, "edit"),
	})
}

func (h *Handler) adminPanel(c *gin.Context) {
	var (
		questions  []domain.Question
		categories []domain.Category
	)
	h.loadConcurrently(c, map[string]func(context.Context) error{
		"questions": func(ctx context.Context) (err error) {
			questions, err = h.questions.List(ctx)
			return err
		},
		"categories": func(ctx context.Context) (err error) {
			categories, err = h.questions.Categories(ctx)
			return err
		},
	})

	var edit *editForm
	if id := queryID(c, "edit"); id > 0 {
		if q, ok := findQuestion(questions, id); ok {
			edit = &editForm{
				Action:     fmt.Sprintf("/questions/%d/update", id),
				Next:       "/admin",
				Back:       fmt.Sprintf("/admin?edit=%d", id),
				CancelURL:  "/admin",
				TitleMax:   service.MaxTitleLength,
				Form:       questionFormFrom(q),
				Categories: categories,
			}
		}
	}

	h.render(c, http.StatusOK, "admin", "Admin Panel", gin.H{
		"Questions": questions,
		"Edit":      edit,
	})
}

func (h *Handler) askForm(c *gin.Context) {
	h.renderAsk(c, http.StatusOK, questionForm{}, "")
}

func (h *Handler) renderAsk(c *gin.Context, status int, form questionForm, errMsg string) {
	categories, err := h.questions.Categories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Error fetching categories")
	}
	h.render(c, status, "ask", "Ask a Question", gin.H{
		"Form":       form,
		"Categories": categories,
		"TitleMax":   service.MaxTitleLength,
		"Error":      errMsg,
	})
}

func (h *Handler) createQuestion(c *gin.Context) {
	sess := currentSession(c)
	if !sess.Authenticated() {
		h.setFlash(c, flashError, "Please log in to ask a question.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	var form questionForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderAsk(c, http.StatusUnprocessableEntity, form, bindMessage(err))
		return
	}

	if err := h.questions.Create(c.Request.Context(), sess.Token, form.input()); err != nil {
		h.renderAsk(c, http.StatusUnprocessableEntity, form, h.failureNotice(err, "create question", "Could not post your question."))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) updateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.notFound(c)
		return
	}
	next := safeRedirect(c.PostForm("next"), fmt.Sprintf("/questions/%d", id))
	back := safeRedirect(c.PostForm("back"), next)

	var form questionForm
	if err := c.ShouldBind(&form); err != nil {
		h.setFlash(c, flashError, bindMessage(err))
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	if err := h.questions.Update(c.Request.Context(), currentSession(c).Token, id, form.input()); err != nil {
		h.fail(c, err, "update question", "Could not update the question.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.notFound(c)
		return
	}
	next := safeRedirect(c.PostForm("next"), "/")
	back := safeRedirect(c.PostForm("back"), next)

	if err := h.questions.Delete(c.Request.Context(), currentSession(c).Token, id); err != nil {
		h.fail(c, err, "delete question", "Could not delete the question.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func findQuestion(questions []domain.Question, id int64) (domain.Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

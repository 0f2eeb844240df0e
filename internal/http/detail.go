package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-forum-web/internal/domain"
	"qa-forum-web/internal/service"
)

func (h *Handler) questionDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.notFound(c)
		return
	}

	var (
		thread     *domain.QuestionThread
		categories []domain.Category
	)
	h.loadConcurrently(c, map[string]func(context.Context) error{
		"question": func(ctx context.Context) (err error) {
			thread, err = h.questions.Get(ctx, id)
			return err
		},
		"categories": func(ctx context.Context) (err error) {
			categories, err = h.questions.Categories(ctx)
			return err
		},
	})

	sess := currentSession(c)
	self := fmt.Sprintf("/questions/%d", id)
	data := gin.H{
		"QuestionID": id,
		"Thread":     thread,
		"Self":       self,
	}
	if thread != nil {
		data["Owner"] = sess.Owns(thread.Question.UserID)
		if c.Query("edit") == "1" && sess.Owns(thread.Question.UserID) {
			data["Edit"] = &editForm{
				Action:     self + "/update",
				Next:       self,
				Back:       self + "?edit=1",
				CancelURL:  self,
				TitleMax:   service.MaxTitleLength,
				Form:       questionFormFrom(thread.Question),
				Categories: categories,
			}
		}
	}

	h.render(c, http.StatusOK, "question", "Question Details", data)
}

func (h *Handler) submitAnswer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.notFound(c)
		return
	}
	self := fmt.Sprintf("/questions/%d", id)

	var form answerForm
	if err := c.ShouldBind(&form); err != nil {
		h.setFlash(c, flashError, bindMessage(err))
		c.Redirect(http.StatusSeeOther, self)
		return
	}

	if err := h.questions.Answer(c.Request.Context(), currentSession(c).Token, id, form.Content); err != nil {
		h.fail(c, err, "submit answer", "Could not submit your answer.")
	}
	c.Redirect(http.StatusSeeOther, self)
}

func (h *Handler) vote(c *gin.Context) {
	answerID, ok := pathID(c)
	if !ok {
		h.notFound(c)
		return
	}

	var form voteForm
	if err := c.ShouldBind(&form); err != nil {
		h.setFlash(c, flashError, bindMessage(err))
		c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("next"), "/"))
		return
	}
	self := fmt.Sprintf("/questions/%d", form.QuestionID)

	if err := h.questions.Vote(c.Request.Context(), currentSession(c).Token, form.QuestionID, answerID, form.Vote); err != nil {
		h.fail(c, err, "vote", "Could not record your vote.")
	}
	c.Redirect(http.StatusSeeOther, self)
}

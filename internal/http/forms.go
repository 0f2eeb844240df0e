package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"qa-forum-web/internal/domain"
)

type questionForm struct {
	Title       string `form:"title" binding:"required,max=50"`
	CategoryID  int64  `form:"category_id" binding:"required,gt=0"`
	Description string `form:"description" binding:"required"`
}

func (f questionForm) input() domain.QuestionInput {
	return domain.QuestionInput{Title: f.Title, CategoryID: f.CategoryID, Description: f.Description}
}

func questionFormFrom(q domain.Question) questionForm {
	return questionForm{Title: q.Title, CategoryID: q.CategoryID, Description: q.Description}
}

type answerForm struct {
	Content string `form:"content" binding:"required"`
}

type voteForm struct {
	Vote       int   `form:"vote" binding:"required,oneof=1 -1"`
	QuestionID int64 `form:"question_id" binding:"required,gt=0"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// registerForm leaves username and password to service.ValidateRegistration,
// which checks them in a fixed order.
type registerForm struct {
	Username string `form:"username"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password"`
}

// editForm is what the shared question form partial renders.
type editForm struct {
	Action     string
	Next       string
	Back       string
	CancelURL  string
	TitleMax   int
	Form       questionForm
	Categories []domain.Category
}

var fieldLabels = map[string]string{
	"Title":       "Title",
	"CategoryID":  "Category",
	"Description": "Description",
	"Content":     "Answer",
	"Vote":        "Vote",
	"QuestionID":  "Question",
	"Email":       "Email",
	"Password":    "Password",
	"Username":    "Username",
}

// bindMessage turns a gin binding failure into a sentence for the page.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "The form could not be read."
	}

	fe := verrs[0]
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required", "gt":
		if fe.Field() == "CategoryID" {
			return "Select a category."
		}
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", label, fe.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}


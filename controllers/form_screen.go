package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/techjourney/folio/api"
	"github.com/techjourney/folio/forms"
	"github.com/techjourney/folio/utils"
	"github.com/techjourney/folio/views"
)

// FormScreen is the create/edit page of one entity. F is the form schema, T
// the API record.
type FormScreen[F any, T any] struct {
	*Base
	Section  string
	Noun     string
	BaseURL  string
	Resource api.Resource[T]
	Blank    func() F
	From     func(T) F
	Payload  func(F) any
	// Fields describes the inputs; c allows options loaded from the API.
	Fields func(c *gin.Context, editing bool) []forms.Field
}

// FormView is the template model of admin/form.
type FormView struct {
	Title     string
	Action    string
	CancelURL string
	Submit    string
	Error     string
	Fields    []forms.Field
	Values    map[string]any
	Errors    forms.Errors
}

type editable interface {
	SetEditing(bool)
}

func (s *FormScreen[F, T]) render(c *gin.Context, status int, editing bool, f F, errs forms.Errors, formErr string) {
	title, submit := "New "+s.Noun, "Create "+s.Noun
	if editing {
		title, submit = "Edit "+s.Noun, "Save changes"
	}
	view := FormView{
		Title:     title,
		Action:    c.Request.URL.Path,
		CancelURL: s.BaseURL,
		Submit:    submit,
		Error:     formErr,
		Fields:    s.Fields(c, editing),
		Values:    forms.Values(&f),
		Errors:    errs,
	}
	views.HTML(c, status, "admin/form", gin.H{"Title": title, "Section": s.Section, "Form": view})
}

// New renders the empty form with its defaults.
func (s *FormScreen[F, T]) New(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	s.render(c, http.StatusOK, false, s.Blank(), nil, "")
}

// Edit loads the record and renders it into the form. A failed load sends
// the browser back to the list with an alert.
func (s *FormScreen[F, T]) Edit(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	item, err := s.Resource.Get(c.Request.Context(), c.Param("id"))
	if cancelled(c) {
		return
	}
	if err != nil {
		if s.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "load "+s.Section, err)
		utils.SetFlash(c, utils.FlashError, fmt.Sprintf("Failed to load %s: %s", s.Noun, api.MessageOf(err)))
		utils.SeeOther(c, s.BaseURL)
		return
	}
	s.render(c, http.StatusOK, true, s.From(item), nil, "")
}

// Create handles the new form submission.
func (s *FormScreen[F, T]) Create(c *gin.Context) {
	s.submit(c, false, func(f F) error {
		_, err := s.Resource.Create(c.Request.Context(), s.Payload(f))
		return err
	})
}

// Update handles the edit form submission.
func (s *FormScreen[F, T]) Update(c *gin.Context) {
	s.submit(c, true, func(f F) error {
		_, err := s.Resource.Update(c.Request.Context(), c.Param("id"), s.Payload(f))
		return err
	})
}

// submit binds, validates and sends the form. Invalid input never reaches
// the API; API failures keep the entered values on screen.
func (s *FormScreen[F, T]) submit(c *gin.Context, editing bool, send func(F) error) {
	var f F
	if e, ok := any(&f).(editable); ok {
		e.SetEditing(editing)
	}
	errs, err := bindForm(c, &f)
	if err != nil {
		s.render(c, http.StatusBadRequest, editing, f, nil, "The form could not be read. Please check the values and try again.")
		return
	}
	if !errs.Empty() {
		s.render(c, http.StatusUnprocessableEntity, editing, f, errs, "")
		return
	}

	release, ok := s.inflight.Acquire(submitKey(c))
	if !ok {
		s.render(c, http.StatusConflict, editing, f, nil, capitalize(ErrInFlight.Error())+".")
		return
	}
	err = send(f)
	release()
	if cancelled(c) {
		return
	}
	if err != nil {
		if s.handleUnauthorized(c, err) {
			return
		}
		logAPIError(c, "save "+s.Section, err)
		s.render(c, http.StatusBadGateway, editing, f, nil, api.MessageOf(err))
		return
	}

	verb := "created"
	if editing {
		verb = "updated"
	}
	utils.SetFlash(c, utils.FlashSuccess, fmt.Sprintf("%s %s", capitalize(s.Noun), verb))
	utils.SeeOther(c, s.BaseURL)
}

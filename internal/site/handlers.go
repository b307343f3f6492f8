// internal/site/handlers.go
package site

import (
	"context"
	"errors"
	"net/http"

	"github.com/orderrave/plated/httputil"
	"github.com/orderrave/plated/internal/landing"
	"go.uber.org/zap"
)

// features are the pitch bullets under the tagline.
var features = []string{
	"Seamless guest RSVPs",
	"Automated food & drink planning",
	"Dashboard for event organizers",
}

type pageView struct {
	State    landing.State
	Features []string
}

func (s *Site) page(w http.ResponseWriter, r *http.Request) {
	comp := s.visitor(w, r)
	w.Header().Set("Cache-Control", "no-store")
	s.views.Render(w, http.StatusOK, "landing", pageView{
		State:    comp.State(),
		Features: features,
	})
}

// modal handles the no-script modal buttons.
func (s *Site) modal(act func(*landing.Component)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act(s.visitor(w, r))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// submitForm handles the no-script form post: the typed values replace the
// form, the submission runs, and the page is shown again with its toast.
func (s *Site) submitForm(w http.ResponseWriter, r *http.Request) {
	comp := s.visitor(w, r)
	if err := r.ParseForm(); err != nil {
		comp.Notify(landing.MsgGenericFailure, landing.SeverityError)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	comp.Edit(landing.FieldName, r.PostForm.Get("name"))
	comp.Edit(landing.FieldEmail, r.PostForm.Get("email"))
	if _, err := comp.Submit(r.Context()); err != nil {
		s.logSubmitErr(r, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type submitRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type submitResponse struct {
	Result landing.Result `json:"result"`
	State  landing.State  `json:"state"`
}

func (s *Site) apiSubmit(w http.ResponseWriter, r *http.Request) {
	comp := s.visitor(w, r)

	var req submitRequest
	if err := httputil.BindJSON(r, &req); err != nil {
		httputil.JSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	comp.Edit(landing.FieldName, req.Name)
	comp.Edit(landing.FieldEmail, req.Email)
	res, err := comp.Submit(r.Context())
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, submitResponse{Result: res, State: comp.State()})
	case errors.Is(err, landing.ErrInFlight):
		httputil.JSONError(w, http.StatusConflict, "in_flight", "a submission is already in progress")
	case errors.Is(err, landing.ErrClosed):
		httputil.JSONError(w, http.StatusServiceUnavailable, "unavailable", "session ended, please retry")
	default:
		s.logSubmitErr(r, err)
	}
}

func (s *Site) apiState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.visitor(w, r).State())
}

func (s *Site) liveSocket(w http.ResponseWriter, r *http.Request) {
	s.live.Serve(w, r, s.visitor(w, r))
}

// logSubmitErr logs submissions that did not run to completion for this
// request. A caller that went away is routine.
func (s *Site) logSubmitErr(r *http.Request, err error) {
	level := zap.InfoLevel
	if errors.Is(err, context.Canceled) || errors.Is(err, landing.ErrInFlight) {
		level = zap.DebugLevel
	}
	s.logger.Log(level, "submission not completed",
		zap.String("path", r.URL.Path), zap.Error(err))
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrianvasquez/fundhub-backend/api/responses"
	"github.com/adrianvasquez/fundhub-backend/api/validators"
	appsvc "github.com/adrianvasquez/fundhub-backend/internal/applications"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"github.com/adrianvasquez/fundhub-backend/pkg/types"
)

type submitApplicationRequest struct {
	FullName string             `json:"full_name" validate:"required,min=2,max=128"`
	Bio      string             `json:"bio" validate:"required,min=10"`
	Website  *string            `json:"website,omitempty" validate:"omitempty,url"`
	Social   *types.SocialLinks `json:"social,omitempty"`
}

// SubmitApplication files a creator application for the authenticated user.
func SubmitApplication(svc appsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body submitApplicationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.Submit(r.Context(), userID, appsvc.SubmitInput{
			FullName: body.FullName,
			Bio:      body.Bio,
			Website:  body.Website,
			Social:   body.Social,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, app)
	}
}

// MyApplication returns the caller's latest application, or null when they
// have never applied.
func MyApplication(svc appsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.MyApplication(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

// AdminPendingApplications lists applications awaiting review. Admin only.
func AdminPendingApplications(svc appsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		apps, err := svc.Pending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

// AdminAllApplications lists every application ever filed. Admin only.
func AdminAllApplications(svc appsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		apps, err := svc.All(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

type reviewApplicationRequest struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"required_if=Approve false,omitempty,min=3"`
}

// AdminReviewApplication approves or rejects a pending application. Admin only.
func AdminReviewApplication(svc appsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable"))
			return
		}

		reviewerID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		applicationID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "applicationId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid application id"))
			return
		}

		var body reviewApplicationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.Review(r.Context(), reviewerID, applicationID, appsvc.ReviewInput{
			Approve:         body.Approve,
			RejectionReason: body.RejectionReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

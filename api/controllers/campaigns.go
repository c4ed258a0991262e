package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrianvasquez/fundhub-backend/api/responses"
	"github.com/adrianvasquez/fundhub-backend/api/validators"
	campaignsvc "github.com/adrianvasquez/fundhub-backend/internal/campaigns"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
	"github.com/adrianvasquez/fundhub-backend/pkg/pagination"
)

type createCampaignRequest struct {
	Title            string          `json:"title" validate:"required,min=3,max=200"`
	Slug             string          `json:"slug" validate:"required,min=3,max=120"`
	Description      string          `json:"description" validate:"required,min=10"`
	ShortDescription string          `json:"short_description" validate:"required,max=280"`
	Category         string          `json:"category" validate:"required"`
	GoalAmount       decimal.Decimal `json:"goal_amount" validate:"required"`
	Currency         string          `json:"currency" validate:"required,len=3"`
	ImageURL         *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL         *string         `json:"video_url,omitempty" validate:"omitempty,url"`
	EndDate          time.Time       `json:"end_date" validate:"required"`
}

// CreateCampaign starts a new draft campaign for the calling creator.
func CreateCampaign(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		creatorID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Create(r.Context(), creatorID, campaignsvc.CreateInput{
			Title:            body.Title,
			Slug:             body.Slug,
			Description:      body.Description,
			ShortDescription: body.ShortDescription,
			Category:         body.Category,
			GoalAmount:       body.GoalAmount,
			Currency:         strings.ToUpper(body.Currency),
			ImageURL:         body.ImageURL,
			VideoURL:         body.VideoURL,
			EndDate:          body.EndDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, campaign)
	}
}

type updateCampaignRequest struct {
	Title            *string          `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description      *string          `json:"description,omitempty" validate:"omitempty,min=10"`
	ShortDescription *string          `json:"short_description,omitempty" validate:"omitempty,max=280"`
	Category         *string          `json:"category,omitempty"`
	GoalAmount       *decimal.Decimal `json:"goal_amount,omitempty"`
	ImageURL         *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	VideoURL         *string          `json:"video_url,omitempty" validate:"omitempty,url"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
}

// UpdateCampaign edits a draft campaign.
func UpdateCampaign(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		actorID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Update(r.Context(), actorID, campaignID, campaignsvc.UpdateInput{
			Title:            body.Title,
			Description:      body.Description,
			ShortDescription: body.ShortDescription,
			Category:         body.Category,
			GoalAmount:       body.GoalAmount,
			ImageURL:         body.ImageURL,
			VideoURL:         body.VideoURL,
			EndDate:          body.EndDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// SubmitCampaignForReview moves a draft into the review queue.
func SubmitCampaignForReview(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		actorID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.SubmitForReview(r.Context(), actorID, campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

type reviewCampaignRequest struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejection_reason,omitempty" validate:"omitempty,min=3"`
}

// AdminReviewCampaign approves or rejects a pending campaign. Admin only.
func AdminReviewCampaign(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		adminID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reviewCampaignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.Review(r.Context(), adminID, campaignID, campaignsvc.ReviewInput{
			Approve:         body.Approve,
			RejectionReason: body.RejectionReason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// DeleteCampaign removes a campaign that has no pledges.
func DeleteCampaign(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		actorID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, campaignID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetCampaignBySlug serves the public campaign page.
func GetCampaignBySlug(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		campaign, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// GetCampaignByID serves a campaign by id.
func GetCampaignByID(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaign, err := svc.GetByID(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaign)
	}
}

// ListActiveCampaigns serves the public browse view, optionally filtered by
// category.
func ListActiveCampaigns(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		category := strings.TrimSpace(r.URL.Query().Get("category"))
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListActive(r.Context(), category, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// MyCampaigns lists the caller's campaigns across every status.
func MyCampaigns(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		creatorID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaigns, err := svc.ListMine(r.Context(), creatorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaigns)
	}
}

// AdminPendingCampaigns lists campaigns awaiting review. Admin only.
func AdminPendingCampaigns(svc campaignsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable"))
			return
		}

		campaigns, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, campaigns)
	}
}

func campaignIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "campaignId")))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid campaign id")
	}
	return id, nil
}

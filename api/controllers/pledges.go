package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrianvasquez/fundhub-backend/api/responses"
	"github.com/adrianvasquez/fundhub-backend/api/validators"
	pledgesvc "github.com/adrianvasquez/fundhub-backend/internal/pledges"
	"github.com/adrianvasquez/fundhub-backend/pkg/enums"
	pkgerrors "github.com/adrianvasquez/fundhub-backend/pkg/errors"
	"github.com/adrianvasquez/fundhub-backend/pkg/logger"
)

type createPledgeRequest struct {
	CampaignID  uuid.UUID       `json:"campaign_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	Message     *string         `json:"message,omitempty" validate:"omitempty,max=500"`
	IsAnonymous bool            `json:"is_anonymous"`
}

// CreatePledge backs an active campaign.
func CreatePledge(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createPledgeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledge, err := svc.Create(r.Context(), userID, pledgesvc.CreateInput{
			CampaignID:  body.CampaignID,
			Amount:      body.Amount,
			Currency:    strings.ToUpper(body.Currency),
			Message:     body.Message,
			IsAnonymous: body.IsAnonymous,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, pledge)
	}
}

type updatePaymentStatusRequest struct {
	PaymentStatus   string  `json:"payment_status" validate:"required"`
	PaymentIntentID *string `json:"payment_intent_id,omitempty"`
}

// AdminUpdatePledgePaymentStatus applies a payment processor outcome. Admin only.
func AdminUpdatePledgePaymentStatus(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		adminID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledgeID, err := pledgeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePaymentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(strings.TrimSpace(body.PaymentStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		pledge, err := svc.UpdatePaymentStatus(r.Context(), adminID, pledgeID, pledgesvc.PaymentStatusInput{
			PaymentStatus:   status,
			PaymentIntentID: body.PaymentIntentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pledge)
	}
}

// CancelPledge withdraws the caller's own uncompleted pledge.
func CancelPledge(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledgeID, err := pledgeIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), userID, pledgeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}

// MyPledges lists the caller's pledges with their campaigns joined.
func MyPledges(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledges, err := svc.ListMine(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pledges)
	}
}

// CampaignPledges lists the public pledges on a campaign page.
func CampaignPledges(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pledges, err := svc.CampaignPledges(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pledges)
	}
}

// CampaignStats serves the funding progress numbers for one campaign.
func CampaignStats(svc pledgesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pledges service unavailable"))
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.CampaignStats(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func pledgeIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "pledgeId")))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pledge id")
	}
	return id, nil
}

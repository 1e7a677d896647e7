package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/davidmreyes/pricewatch-backend/api/responses"
	"github.com/davidmreyes/pricewatch-backend/api/validators"
	"github.com/davidmreyes/pricewatch-backend/internal/inflation"
	"github.com/davidmreyes/pricewatch-backend/pkg/enums"
	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
	"github.com/davidmreyes/pricewatch-backend/pkg/logger"
)

// InflationItem reports the price change for one item over the requested
// window, in the requested currency.
func InflationItem(svc inflation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inflation service unavailable"))
			return
		}

		uid, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, from, to, err := parseInflationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.ComputeItem(r.Context(), uid, itemID, currency, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// InflationBasket reports the aggregate price change across the user's items.
func InflationBasket(svc inflation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inflation service unavailable"))
			return
		}

		uid, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, from, to, err := parseInflationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.ComputeBasket(r.Context(), uid, currency, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func parseInflationQuery(r *http.Request) (enums.Currency, time.Time, time.Time, error) {
	currency, err := validators.ParseQueryCurrency(r, "currency")
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	if currency == nil {
		return "", time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "currency query parameter is required")
	}
	from, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	to, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	if from == nil || to == nil {
		return "", time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date query parameters are required")
	}
	return *currency, *from, *to, nil
}

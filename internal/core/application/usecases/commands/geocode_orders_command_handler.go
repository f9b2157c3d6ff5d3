package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GeocodeResult counts the outcome of one geocoding pass. Failed orders keep
// no coordinates and are reported out of bounds by zone assignment.
type GeocodeResult struct {
	Attempted int
	Geocoded  int
	Failed    int
	Skipped   int
}

// GeocodeOrdersCommandHandler fills in missing coordinates. Addresses are
// geocoded outside any transaction; each result is saved in its own short
// transaction.
type GeocodeOrdersCommandHandler struct {
	uowFactory  OrderUoWFactory
	geocoder    ports.GeocodingProvider
	callTimeout time.Duration
	logger      *slog.Logger
}

func NewGeocodeOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.GeocodingProvider,
	callTimeout time.Duration,
	logger *slog.Logger,
) GeocodeOrdersCommandHandler {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return GeocodeOrdersCommandHandler{
		uowFactory:  uowFactory,
		geocoder:    geocoder,
		callTimeout: callTimeout,
		logger:      logger.With("component", "geocode_orders"),
	}
}

func (h GeocodeOrdersCommandHandler) Handle(ctx context.Context, cmd GeocodeOrdersCommand) (GeocodeResult, error) {
	var result GeocodeResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	pending, err := h.pending(ctx, cmd)
	if err != nil {
		return result, err
	}

	for _, o := range pending {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		result.Attempted++

		c, geoErr := h.geocode(ctx, o.Details().Address)
		if geoErr != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "geocoding failed",
				"orderId", o.ID().String(),
				"error", geoErr,
			)
			continue
		}

		saved, err := h.save(ctx, o.ID(), c)
		if err != nil {
			return result, err
		}
		if saved {
			result.Geocoded++
		} else {
			result.Skipped++
		}
	}

	h.logger.InfoContext(ctx, "geocoding pass finished",
		"attempted", result.Attempted,
		"geocoded", result.Geocoded,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (h GeocodeOrdersCommandHandler) pending(ctx context.Context, cmd GeocodeOrdersCommand) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().ListWithoutCoordinates(ctx, cmd.From(), cmd.Limit())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return orders, nil
}

func (h GeocodeOrdersCommandHandler) geocode(ctx context.Context, address string) (kernel.Coordinates, error) {
	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout)
	defer cancel()

	c, err := h.geocoder.Geocode(callCtx, address)
	if err != nil {
		return kernel.Coordinates{}, errs.NewExternalServiceError("geocoder", err)
	}
	return c, nil
}

// save reports false when the order was zoned or geocoded by someone else
// in the meantime.
func (h GeocodeOrdersCommandHandler) save(ctx context.Context, id kernel.UUID, c kernel.Coordinates) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if o.Coordinates() != nil {
		return false, nil
	}
	if err = o.SetCoordinates(c); err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			return false, nil
		}
		return false, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

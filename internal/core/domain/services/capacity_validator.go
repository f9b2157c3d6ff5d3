package services

import (
	"math"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Capacity dimensions reported in CapacityExceededError.
const (
	DimensionWeight = "weightKg"
	DimensionVolume = "volumeM3"
)

// CapacityReport sums what a run would load into a vehicle. Orders whose
// weight or volume is NaN do not contribute and are listed so the caller
// can log them as data-quality warnings.
type CapacityReport struct {
	TotalWeightKg       float64
	TotalVolumeM3       float64
	UnknownWeightOrders []kernel.UUID
	UnknownVolumeOrders []kernel.UUID
}

func (r CapacityReport) HasWarnings() bool {
	return len(r.UnknownWeightOrders) > 0 || len(r.UnknownVolumeOrders) > 0
}

// CapacityValidator checks a run's orders against a vehicle.
type CapacityValidator struct{}

func NewCapacityValidator() CapacityValidator {
	return CapacityValidator{}
}

// Validate returns the report and, when either bound is exceeded, a
// CapacityExceededError naming the first exceeded dimension (weight first).
// Loads equal to capacity fit.
func (CapacityValidator) Validate(orders []*order.Order, vehicle *fleet.Vehicle) (CapacityReport, error) {
	var report CapacityReport

	if err := vehicle.Validate(); err != nil {
		return report, err
	}

	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return report, err
		}
		if w := o.WeightKg(); math.IsNaN(w) {
			report.UnknownWeightOrders = append(report.UnknownWeightOrders, o.ID())
		} else {
			report.TotalWeightKg += w
		}
		if v := o.VolumeM3(); math.IsNaN(v) {
			report.UnknownVolumeOrders = append(report.UnknownVolumeOrders, o.ID())
		} else {
			report.TotalVolumeM3 += v
		}
	}

	if report.TotalWeightKg > vehicle.CapacityKg() {
		return report, errs.NewCapacityExceededError(DimensionWeight, report.TotalWeightKg, vehicle.CapacityKg())
	}
	if report.TotalVolumeM3 > vehicle.CapacityCubicM() {
		return report, errs.NewCapacityExceededError(DimensionVolume, report.TotalVolumeM3, vehicle.CapacityCubicM())
	}
	return report, nil
}

package http

import (
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/run"
	"dispatch/internal/core/domain/model/zone"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ApplyTemplateRequest struct {
	ActiveDays []string `json:"activeDays"`
}

type AssignmentRequest struct {
	DriverID  string `json:"driverId"`
	VehicleID string `json:"vehicleId"`
}

type StatusRequest struct {
	Action string `json:"action"`
}

type NewOrder struct {
	ID            *string  `json:"id"`
	CustomerName  string   `json:"customerName"`
	CustomerPhone string   `json:"customerPhone"`
	Address       string   `json:"address"`
	ScheduledDate string   `json:"scheduledDate"`
	WeightKg      float64  `json:"weightKg"`
	VolumeM3      float64  `json:"volumeM3"`
	Lng           *float64 `json:"lng"`
	Lat           *float64 `json:"lat"`
}

type NewDriver struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type NewVehicle struct {
	Plate          string  `json:"plate"`
	CapacityKg     float64 `json:"capacityKg"`
	CapacityCubicM float64 `json:"capacityCubicM"`
}

type GeocodeRequest struct {
	From  *string `json:"from"`
	Limit *int    `json:"limit"`
}

type Zone struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Color             string       `json:"color,omitempty"`
	Boundary          [][2]float64 `json:"boundary"`
	ActiveDays        []string     `json:"activeDays"`
	TargetDriverCount int          `json:"targetDriverCount"`
	DisplayOrder      int          `json:"displayOrder"`
	IsActive          bool         `json:"isActive"`
	OrderCount        *int         `json:"orderCount,omitempty"`
}

type ZoneAssignmentResult struct {
	Date                string         `json:"date"`
	TotalOrders         int            `json:"totalOrders"`
	AssignedOrders      int            `json:"assignedOrders"`
	OutOfBoundsOrders   int            `json:"outOfBoundsOrders"`
	AlreadyZonedOrders  int            `json:"alreadyZonedOrders"`
	FallbackOrders      int            `json:"fallbackOrders"`
	PerZoneCounts       map[string]int `json:"perZoneCounts"`
	OutOfBoundsOrderIDs []string       `json:"outOfBoundsOrderIds"`
}

type RunSummary struct {
	RunID          string `json:"runId"`
	RunNumber      string `json:"runNumber"`
	ZoneID         string `json:"zoneId"`
	Status         string `json:"status"`
	OrderCount     int    `json:"orderCount"`
	AddedOrders    int    `json:"addedOrders"`
	DeferredOrders int    `json:"deferredOrders"`
	Created        bool   `json:"created"`
}

type Move struct {
	OrderID    string `json:"orderId"`
	FromZoneID string `json:"fromZoneId"`
	ToZoneID   string `json:"toZoneId"`
	Reason     string `json:"reason"`
}

type ZoneLoad struct {
	ZoneID          string  `json:"zoneId"`
	ZoneName        string  `json:"zoneName"`
	Orders          int     `json:"orders"`
	TargetDrivers   int     `json:"targetDrivers"`
	OrdersPerDriver float64 `json:"ordersPerDriver"`
}

type RebalanceResult struct {
	Moves        []Move     `json:"moves"`
	SkippedMoves int        `json:"skippedMoves"`
	ZoneLoads    []ZoneLoad `json:"zoneLoads"`
}

type Run struct {
	ID                       string   `json:"id"`
	RunNumber                string   `json:"runNumber"`
	ScheduledDate            string   `json:"scheduledDate"`
	Status                   string   `json:"status"`
	ZoneID                   *string  `json:"zoneId,omitempty"`
	DriverID                 *string  `json:"driverId,omitempty"`
	VehicleID                *string  `json:"vehicleId,omitempty"`
	OrderIDs                 []string `json:"orderIds"`
	EstimatedDurationMinutes *float64 `json:"estimatedDurationMinutes,omitempty"`
	TotalDistanceKm          *float64 `json:"totalDistanceKm,omitempty"`
}

type RunListItem struct {
	ID                       string   `json:"id"`
	RunNumber                string   `json:"runNumber"`
	Status                   string   `json:"status"`
	ZoneID                   *string  `json:"zoneId,omitempty"`
	ZoneName                 string   `json:"zoneName,omitempty"`
	DriverID                 *string  `json:"driverId,omitempty"`
	DriverName               string   `json:"driverName,omitempty"`
	VehicleID                *string  `json:"vehicleId,omitempty"`
	VehiclePlate             string   `json:"vehiclePlate,omitempty"`
	OrderCount               int      `json:"orderCount"`
	TotalWeightKg            float64  `json:"totalWeightKg"`
	TotalVolumeM3            float64  `json:"totalVolumeM3"`
	EstimatedDurationMinutes *float64 `json:"estimatedDurationMinutes,omitempty"`
	TotalDistanceKm          *float64 `json:"totalDistanceKm,omitempty"`
}

type FinalizeResult struct {
	OrderCount               int      `json:"orderCount"`
	CustomersNotified        int      `json:"customersNotified"`
	CustomerFailures         int      `json:"customerFailures"`
	DriverNotified           bool     `json:"driverNotified"`
	EstimatedDurationMinutes *float64 `json:"estimatedDurationMinutes,omitempty"`
	EstimatedDistanceKm      *float64 `json:"estimatedDistanceKm,omitempty"`
}

type Order struct {
	ID            string   `json:"id"`
	CustomerName  string   `json:"customerName"`
	Address       string   `json:"address"`
	ScheduledDate string   `json:"scheduledDate"`
	WeightKg      float64  `json:"weightKg"`
	VolumeM3      float64  `json:"volumeM3"`
	Lng           *float64 `json:"lng,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	ZoneID        *string  `json:"zoneId,omitempty"`
	RunID         *string  `json:"runId,omitempty"`
}

type Driver struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  string  `json:"phone"`
	Status string  `json:"status"`
	RunID  *string `json:"runId,omitempty"`
}

type Vehicle struct {
	ID             string  `json:"id"`
	Plate          string  `json:"plate"`
	CapacityKg     float64 `json:"capacityKg"`
	CapacityCubicM float64 `json:"capacityCubicM"`
	Status         string  `json:"status"`
	RunID          *string `json:"runId,omitempty"`
}

type FleetAvailability struct {
	Date         string    `json:"date"`
	BusyDrivers  []Driver  `json:"busyDrivers"`
	FreeDrivers  []Driver  `json:"freeDrivers"`
	BusyVehicles []Vehicle `json:"busyVehicles"`
	FreeVehicles []Vehicle `json:"freeVehicles"`
}

type GeocodeResult struct {
	Attempted int `json:"attempted"`
	Geocoded  int `json:"geocoded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func toZone(z *zone.Zone) Zone {
	ring := z.Boundary()
	boundary := make([][2]float64, len(ring))
	for i, p := range ring {
		boundary[i] = [2]float64{p.Lng, p.Lat}
	}
	return Zone{
		ID:                z.ID().String(),
		Name:              z.Name(),
		Color:             z.Color(),
		Boundary:          boundary,
		ActiveDays:        []string(z.ActiveDays()),
		TargetDriverCount: z.TargetDriverCount(),
		DisplayOrder:      z.DisplayOrder(),
		IsActive:          z.IsActive(),
	}
}

func toActiveZone(z queries.GetActiveZonesQueryResponse) Zone {
	count := z.OrderCount
	return Zone{
		ID:                z.ID.String(),
		Name:              z.Name,
		Color:             z.Color,
		Boundary:          z.Boundary,
		ActiveDays:        z.ActiveDays,
		TargetDriverCount: z.TargetDriverCount,
		DisplayOrder:      z.DisplayOrder,
		IsActive:          true,
		OrderCount:        &count,
	}
}

func toZoneAssignmentResult(r commands.ZoneAssignmentResult) ZoneAssignmentResult {
	perZone := make(map[string]int, len(r.PerZoneCounts))
	for id, n := range r.PerZoneCounts {
		perZone[id.String()] = n
	}
	return ZoneAssignmentResult{
		Date:                r.Date.String(),
		TotalOrders:         r.TotalOrders,
		AssignedOrders:      r.AssignedOrders,
		OutOfBoundsOrders:   r.OutOfBoundsOrders,
		AlreadyZonedOrders:  r.AlreadyZonedOrders,
		FallbackOrders:      r.FallbackOrders,
		PerZoneCounts:       perZone,
		OutOfBoundsOrderIDs: idStrings(r.OutOfBoundsOrderIDs),
	}
}

func toRunSummary(s commands.RunSummary) RunSummary {
	return RunSummary{
		RunID:          s.RunID.String(),
		RunNumber:      s.RunNumber,
		ZoneID:         s.ZoneID.String(),
		Status:         s.Status.String(),
		OrderCount:     s.OrderCount,
		AddedOrders:    s.AddedOrders,
		DeferredOrders: s.DeferredOrders,
		Created:        s.Created,
	}
}

func toRebalanceResult(r commands.RebalanceResult) RebalanceResult {
	out := RebalanceResult{
		Moves:        make([]Move, len(r.Moves)),
		SkippedMoves: r.SkippedMoves,
		ZoneLoads:    make([]ZoneLoad, len(r.ZoneLoads)),
	}
	for i, m := range r.Moves {
		out.Moves[i] = Move{
			OrderID:    m.OrderID.String(),
			FromZoneID: m.FromZoneID.String(),
			ToZoneID:   m.ToZoneID.String(),
			Reason:     m.Reason,
		}
	}
	for i, l := range r.ZoneLoads {
		out.ZoneLoads[i] = ZoneLoad{
			ZoneID:          l.ZoneID.String(),
			ZoneName:        l.ZoneName,
			Orders:          l.Orders,
			TargetDrivers:   l.TargetDrivers,
			OrdersPerDriver: l.PerDriver(),
		}
	}
	return out
}

func toRun(r *run.DeliveryRun) Run {
	return Run{
		ID:                       r.ID().String(),
		RunNumber:                r.RunNumber(),
		ScheduledDate:            r.ScheduledDate().String(),
		Status:                   r.Status().String(),
		ZoneID:                   idString(r.ZoneID()),
		DriverID:                 idString(r.DriverID()),
		VehicleID:                idString(r.VehicleID()),
		OrderIDs:                 idStrings(r.OrderIDs()),
		EstimatedDurationMinutes: r.EstimatedDurationMinutes(),
		TotalDistanceKm:          r.TotalDistanceKm(),
	}
}

func toRunListItem(r queries.GetRunsForDateQueryResponse) RunListItem {
	return RunListItem{
		ID:                       r.ID.String(),
		RunNumber:                r.RunNumber,
		Status:                   r.Status,
		ZoneID:                   idString(r.ZoneID),
		ZoneName:                 r.ZoneName,
		DriverID:                 idString(r.DriverID),
		DriverName:               r.DriverName,
		VehicleID:                idString(r.VehicleID),
		VehiclePlate:             r.VehiclePlate,
		OrderCount:               r.OrderCount,
		TotalWeightKg:            r.TotalWeightKg,
		TotalVolumeM3:            r.TotalVolumeM3,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		TotalDistanceKm:          r.TotalDistanceKm,
	}
}

func toOrder(o *order.Order) Order {
	d := o.Details()
	out := Order{
		ID:            o.ID().String(),
		CustomerName:  d.CustomerName,
		Address:       d.Address,
		ScheduledDate: d.ScheduledDate.String(),
		WeightKg:      d.WeightKg,
		VolumeM3:      d.VolumeM3,
		ZoneID:        idString(o.ZoneID()),
		RunID:         idString(o.RunID()),
	}
	if c := o.Coordinates(); c != nil {
		lng, lat := c.Lng(), c.Lat()
		out.Lng = &lng
		out.Lat = &lat
	}
	return out
}

func toDriver(d *fleet.Driver) Driver {
	return Driver{ID: d.ID().String(), Name: d.Name(), Phone: d.Phone(), Status: d.Status().String()}
}

func toVehicle(v *fleet.Vehicle) Vehicle {
	return Vehicle{
		ID:             v.ID().String(),
		Plate:          v.Plate(),
		CapacityKg:     v.CapacityKg(),
		CapacityCubicM: v.CapacityCubicM(),
		Status:         v.Status().String(),
	}
}

func toFleetAvailability(r queries.GetFleetAvailabilityQueryResponse) FleetAvailability {
	out := FleetAvailability{
		Date:         r.Date.String(),
		BusyDrivers:  make([]Driver, 0, len(r.BusyDrivers)),
		FreeDrivers:  make([]Driver, 0, len(r.FreeDrivers)),
		BusyVehicles: make([]Vehicle, 0, len(r.BusyVehicles)),
		FreeVehicles: make([]Vehicle, 0, len(r.FreeVehicles)),
	}
	driver := func(d queries.DriverAvailability) Driver {
		return Driver{ID: d.ID.String(), Name: d.Name, Phone: d.Phone, Status: d.Status, RunID: idString(d.RunID)}
	}
	vehicle := func(v queries.VehicleAvailability) Vehicle {
		return Vehicle{
			ID:             v.ID.String(),
			Plate:          v.Plate,
			CapacityKg:     v.CapacityKg,
			CapacityCubicM: v.CapacityCubicM,
			Status:         v.Status,
			RunID:          idString(v.RunID),
		}
	}
	for _, d := range r.BusyDrivers {
		out.BusyDrivers = append(out.BusyDrivers, driver(d))
	}
	for _, d := range r.FreeDrivers {
		out.FreeDrivers = append(out.FreeDrivers, driver(d))
	}
	for _, v := range r.BusyVehicles {
		out.BusyVehicles = append(out.BusyVehicles, vehicle(v))
	}
	for _, v := range r.FreeVehicles {
		out.FreeVehicles = append(out.FreeVehicles, vehicle(v))
	}
	return out
}

package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

// FleetHandler covers drivers and vehicles. These are plain CRUD resources
// scoped to the owning carrier account, so they talk to the repositories
// directly rather than through a service.
type FleetHandler struct {
	Drivers  ports.DriverRepository
	Vehicles ports.VehicleRepository

	// Position reports from a driver on an active trip also land in the
	// shipment's tracking history.
	Shipments ports.ShipmentRepository
	Tracking  ports.TrackingRepository

	Log *zap.Logger
}

// DriverCollection handles POST (create) and GET (list) on /api/drivers.
func (h *FleetHandler) DriverCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createDriver(w, r)
	case http.MethodGet:
		h.listDrivers(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *FleetHandler) createDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionDriverManage) {
		return
	}

	var req dto.CreateDriverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "driver name is required")
		return
	}

	d := &domain.Driver{
		ID:        uuid.NewString(),
		OwnerID:   id.UserID,
		UserID:    req.UserID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		LicenseNo: strings.TrimSpace(req.LicenseNo),
		Status:    domain.DriverAvailable,
	}
	if err := h.Drivers.Create(r.Context(), d); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusCreated, toDriverResponse(d))
}

func (h *FleetHandler) listDrivers(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionDriverManage) {
		return
	}

	ownerID := id.UserID
	if id.Role == domain.RoleAdmin {
		ownerID = r.URL.Query().Get("owner_id")
	}

	drivers, err := h.Drivers.List(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		res = append(res, toDriverResponse(d))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// AssignVehicle handles POST /api/drivers/{id}/assign-vehicle.
func (h *FleetHandler) AssignVehicle(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionDriverManage) {
		return
	}

	var req dto.AssignVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	driver, ok := h.ownedDriver(w, r, id)
	if !ok {
		return
	}

	// The vehicle must belong to the same fleet before it can be assigned.
	vehicle, err := h.Vehicles.GetByID(r.Context(), req.VehicleID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if vehicle.OwnerID != driver.OwnerID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.Drivers.AssignVehicle(r.Context(), driver.ID, vehicle.ID); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	driver.VehicleID = &vehicle.ID
	writeData(w, r, h.Log, http.StatusOK, toDriverResponse(driver))
}

// Location handles POST /api/drivers/{id}/location.
func (h *FleetHandler) Location(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionDriverLocation) {
		return
	}

	var req dto.DriverLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lon < -180 || req.Lon > 180 {
		writeError(w, r, h.Log, http.StatusBadRequest, "coordinates out of range")
		return
	}

	driver, err := h.Drivers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	// Drivers report their own position; managers may correct it.
	if id.Role == domain.RoleDriver && driver.UserID != id.UserID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}
	if id.Role != domain.RoleDriver && id.Role != domain.RoleAdmin && driver.OwnerID != id.UserID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	now := time.Now().UTC()
	if err := h.Drivers.UpdateLocation(r.Context(), driver.ID, req.Lat, req.Lon, now); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	h.trackInTransit(r, driver, req.Lat, req.Lon)

	driver.LastLat = &req.Lat
	driver.LastLon = &req.Lon
	driver.LastSeen = &now
	writeData(w, r, h.Log, http.StatusOK, toDriverResponse(driver))
}

// trackInTransit appends a location event to every in-transit shipment of the
// driver's employer. Failures are logged only; the position update itself has
// already landed.
func (h *FleetHandler) trackInTransit(r *http.Request, driver *domain.Driver, lat, lon float64) {
	shipments, err := h.Shipments.List(r.Context(), ports.ShipmentFilter{
		CarrierID: driver.OwnerID,
		Status:    domain.ShipmentInTransit,
	})
	if err != nil {
		h.Log.Warn("location report: list in-transit shipments failed",
			zap.String("driver_id", driver.ID), zap.Error(err))
		return
	}

	for _, s := range shipments {
		event := &domain.TrackingEvent{
			ID:          uuid.NewString(),
			ShipmentID:  s.ID,
			Type:        domain.TrackingLocationUpdate,
			Description: fmt.Sprintf("driver %s position report", driver.Name),
			Lat:         &lat,
			Lon:         &lon,
			CreatedBy:   driver.UserID,
		}
		if err := h.Tracking.Append(r.Context(), event); err != nil {
			h.Log.Warn("location report: tracking append failed",
				zap.String("shipment_id", s.ID), zap.Error(err))
		}
	}
}

// VehicleCollection handles POST (create) and GET (list) on /api/vehicles.
func (h *FleetHandler) VehicleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createVehicle(w, r)
	case http.MethodGet:
		h.listVehicles(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *FleetHandler) createVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionVehicleManage) {
		return
	}

	var req dto.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Plate) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "plate is required")
		return
	}
	equipment := domain.EquipmentType(req.Type)
	if !equipment.Valid() {
		writeError(w, r, h.Log, http.StatusBadRequest, "unknown vehicle type")
		return
	}

	v := &domain.Vehicle{
		ID:         uuid.NewString(),
		OwnerID:    id.UserID,
		Plate:      strings.ToUpper(strings.TrimSpace(req.Plate)),
		Type:       equipment,
		CapacityKg: req.CapacityKg,
		Model:      strings.TrimSpace(req.Model),
		Year:       req.Year,
		Status:     domain.VehicleActive,
	}
	if err := h.Vehicles.Create(r.Context(), v); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusCreated, toVehicleResponse(v))
}

func (h *FleetHandler) listVehicles(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionVehicleManage) {
		return
	}

	ownerID := id.UserID
	if id.Role == domain.RoleAdmin {
		ownerID = r.URL.Query().Get("owner_id")
	}

	vehicles, err := h.Vehicles.List(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		res = append(res, toVehicleResponse(v))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// VehicleItem handles GET, PATCH and DELETE on /api/vehicles/{id}.
func (h *FleetHandler) VehicleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionVehicleManage) {
		return
	}

	vehicle, err := h.Vehicles.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if id.Role != domain.RoleAdmin && vehicle.OwnerID != id.UserID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeData(w, r, h.Log, http.StatusOK, toVehicleResponse(vehicle))
	case http.MethodPatch:
		h.updateVehicle(w, r, vehicle)
	case http.MethodDelete:
		if err := h.Vehicles.Delete(r.Context(), vehicle.ID); err != nil {
			writeDomainError(w, r, h.Log, err)
			return
		}
		writeData(w, r, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (h *FleetHandler) updateVehicle(w http.ResponseWriter, r *http.Request, vehicle *domain.Vehicle) {
	var req dto.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.Plate != "" {
		vehicle.Plate = strings.ToUpper(strings.TrimSpace(req.Plate))
	}
	if req.Type != "" {
		equipment := domain.EquipmentType(req.Type)
		if !equipment.Valid() {
			writeError(w, r, h.Log, http.StatusBadRequest, "unknown vehicle type")
			return
		}
		vehicle.Type = equipment
	}
	if req.CapacityKg > 0 {
		vehicle.CapacityKg = req.CapacityKg
	}
	if req.Model != "" {
		vehicle.Model = strings.TrimSpace(req.Model)
	}
	if req.Year > 0 {
		vehicle.Year = req.Year
	}
	if req.Status != "" {
		status := domain.VehicleStatus(req.Status)
		switch status {
		case domain.VehicleActive, domain.VehicleInUse, domain.VehicleMaintenance, domain.VehicleRetired:
			vehicle.Status = status
		default:
			writeError(w, r, h.Log, http.StatusBadRequest, "unknown vehicle status")
			return
		}
	}

	if err := h.Vehicles.Update(r.Context(), vehicle); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, toVehicleResponse(vehicle))
}

func (h *FleetHandler) ownedDriver(w http.ResponseWriter, r *http.Request, id auth.Identity) (*domain.Driver, bool) {
	driver, err := h.Drivers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return nil, false
	}
	if id.Role != domain.RoleAdmin && driver.OwnerID != id.UserID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return driver, true
}

func toDriverResponse(d *domain.Driver) dto.DriverResponse {
	return dto.DriverResponse{
		ID:        d.ID,
		Name:      d.Name,
		Phone:     d.Phone,
		LicenseNo: d.LicenseNo,
		Status:    string(d.Status),
		VehicleID: d.VehicleID,
		LastLat:   d.LastLat,
		LastLon:   d.LastLon,
		LastSeen:  d.LastSeen,
		CreatedAt: d.CreatedAt,
	}
}

func toVehicleResponse(v *domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:         v.ID,
		OwnerID:    v.OwnerID,
		Plate:      v.Plate,
		Type:       string(v.Type),
		CapacityKg: v.CapacityKg,
		Model:      v.Model,
		Year:       v.Year,
		Status:     string(v.Status),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/api/dto"
	"freight-marketplace-service/internal/auth"
	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
	"freight-marketplace-service/internal/services"
)

// MarketplaceHandler covers issues, delivery proofs and the customer book.
type MarketplaceHandler struct {
	Service   *services.ShipmentService
	Issues    ports.IssueRepository
	Proofs    ports.ProofRepository
	Customers ports.CustomerRepository
	Shipments ports.ShipmentRepository
	Log       *zap.Logger
}

// IssueCollection handles POST (report) and GET (list) on /api/issues.
func (h *MarketplaceHandler) IssueCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.reportIssue(w, r)
	case http.MethodGet:
		h.listIssues(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *MarketplaceHandler) reportIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionIssueCreate) {
		return
	}

	var req dto.ReportIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	issue, err := h.Service.ReportIssue(r.Context(), id.UserID, req.ShipmentID, services.ReportIssueInput{
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusCreated, toIssueResponse(issue))
}

func (h *MarketplaceHandler) listIssues(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	shipmentID := r.URL.Query().Get("shipment_id")
	reporterID := id.UserID
	if id.Role == domain.RoleAdmin {
		reporterID = r.URL.Query().Get("reporter_id")
	}

	issues, err := h.Issues.List(r.Context(), shipmentID, reporterID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.IssueResponse, 0, len(issues))
	for _, i := range issues {
		res = append(res, toIssueResponse(i))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// ResolveIssue handles POST /api/issues/{id}/resolve.
func (h *MarketplaceHandler) ResolveIssue(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, h.Log, http.MethodPost) {
		return
	}
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionIssueResolve) {
		return
	}

	issueID := r.PathValue("id")
	if err := h.Issues.Resolve(r.Context(), issueID); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	issue, err := h.Issues.GetByID(r.Context(), issueID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, toIssueResponse(issue))
}

// ShipmentProof handles POST (submit) and GET (list) on /api/shipments/{id}/proof.
func (h *MarketplaceHandler) ShipmentProof(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitProof(w, r)
	case http.MethodGet:
		h.listProofs(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *MarketplaceHandler) submitProof(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionProofSubmit) {
		return
	}

	var req dto.SubmitProofRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	proof, err := h.Service.SubmitProof(r.Context(), id.UserID, id.Role,
		r.PathValue("id"), services.SubmitProofInput{
			PhotoURL:   req.PhotoURL,
			SignerName: req.SignerName,
			Notes:      req.Notes,
		})
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	writeData(w, r, h.Log, http.StatusCreated, toProofResponse(proof))
}

func (h *MarketplaceHandler) listProofs(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok {
		return
	}

	shipment, err := h.Shipments.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if !h.Service.CanView(r.Context(), id.UserID, id.Role, shipment) {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	proofs, err := h.Proofs.ListByShipment(r.Context(), shipment.ID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.ProofResponse, 0, len(proofs))
	for _, p := range proofs {
		res = append(res, toProofResponse(p))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// CustomerCollection handles POST (create) and GET (list) on /api/customers.
func (h *MarketplaceHandler) CustomerCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createCustomer(w, r)
	case http.MethodGet:
		h.listCustomers(w, r)
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPost)
	}
}

func (h *MarketplaceHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionCustomerManage) {
		return
	}

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, h.Log, http.StatusBadRequest, "customer name is required")
		return
	}

	c := &domain.Customer{
		ID:      uuid.NewString(),
		OwnerID: id.UserID,
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
	}
	if err := h.Customers.Create(r.Context(), c); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusCreated, toCustomerResponse(c))
}

func (h *MarketplaceHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionCustomerManage) {
		return
	}

	ownerID := id.UserID
	if id.Role == domain.RoleAdmin {
		ownerID = r.URL.Query().Get("owner_id")
	}

	customers, err := h.Customers.List(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}

	res := make([]dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		res = append(res, toCustomerResponse(c))
	}
	writeData(w, r, h.Log, http.StatusOK, res)
}

// CustomerItem handles GET, PATCH and DELETE on /api/customers/{id}.
func (h *MarketplaceHandler) CustomerItem(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.Log)
	if !ok || !allow(w, r, h.Log, id, auth.ActionCustomerManage) {
		return
	}

	customer, err := h.Customers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	if id.Role != domain.RoleAdmin && customer.OwnerID != id.UserID {
		writeError(w, r, h.Log, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeData(w, r, h.Log, http.StatusOK, toCustomerResponse(customer))
	case http.MethodPatch:
		h.updateCustomer(w, r, customer)
	case http.MethodDelete:
		if err := h.Customers.Delete(r.Context(), customer.ID); err != nil {
			writeDomainError(w, r, h.Log, err)
			return
		}
		writeData(w, r, h.Log, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		requireMethod(w, r, h.Log, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (h *MarketplaceHandler) updateCustomer(w http.ResponseWriter, r *http.Request, customer *domain.Customer) {
	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.Log, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.Name != "" {
		customer.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		customer.Email = strings.TrimSpace(req.Email)
	}
	if req.Phone != "" {
		customer.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Company != "" {
		customer.Company = strings.TrimSpace(req.Company)
	}
	if req.City != "" {
		customer.City = strings.TrimSpace(req.City)
	}
	if req.State != "" {
		customer.State = strings.TrimSpace(req.State)
	}

	if err := h.Customers.Update(r.Context(), customer); err != nil {
		writeDomainError(w, r, h.Log, err)
		return
	}
	writeData(w, r, h.Log, http.StatusOK, toCustomerResponse(customer))
}

func toIssueResponse(i *domain.Issue) dto.IssueResponse {
	return dto.IssueResponse{
		ID:          i.ID,
		ShipmentID:  i.ShipmentID,
		ReporterID:  i.ReporterID,
		Type:        i.Type,
		Description: i.Description,
		Status:      string(i.Status),
		ResolvedAt:  i.ResolvedAt,
		CreatedAt:   i.CreatedAt,
	}
}

func toProofResponse(p *domain.DeliveryProof) dto.ProofResponse {
	return dto.ProofResponse{
		ID:         p.ID,
		ShipmentID: p.ShipmentID,
		UploadedBy: p.UploadedBy,
		PhotoURL:   p.PhotoURL,
		SignerName: p.SignerName,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

func toCustomerResponse(c *domain.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		City:      c.City,
		State:     c.State,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

package auth

import "freight-marketplace-service/internal/domain"

// Action names an operation against a resource class. Endpoint-level
// authorization is a single table lookup here instead of role checks
// scattered through handlers; row-level scoping lives in repository filters.
type Action string

const (
	ActionShipmentCreate Action = "shipment.create"
	ActionShipmentList   Action = "shipment.list"
	ActionShipmentStatus Action = "shipment.status"
	ActionShipmentCancel Action = "shipment.cancel"

	ActionBidSubmit   Action = "bid.submit"
	ActionBidList     Action = "bid.list"
	ActionBidDecide   Action = "bid.decide"
	ActionBidWithdraw Action = "bid.withdraw"

	ActionDriverManage   Action = "driver.manage"
	ActionDriverLocation Action = "driver.location"
	ActionVehicleManage  Action = "vehicle.manage"

	ActionTrackingAppend Action = "tracking.append"
	ActionTrackingRead   Action = "tracking.read"

	ActionIssueCreate  Action = "issue.create"
	ActionIssueResolve Action = "issue.resolve"

	ActionProofSubmit Action = "proof.submit"

	ActionNotificationSend Action = "notification.send"

	ActionCustomerManage Action = "customer.manage"

	ActionPricingEstimate Action = "pricing.estimate"
)

var policy = map[Action][]domain.Role{
	ActionShipmentCreate: {domain.RoleShipper, domain.RoleCompany, domain.RoleAdmin},
	ActionShipmentList:   anyRole(),
	ActionShipmentStatus: {domain.RoleCarrier, domain.RoleDriver, domain.RoleAdmin},
	ActionShipmentCancel: {domain.RoleShipper, domain.RoleCompany, domain.RoleAdmin},

	ActionBidSubmit:   {domain.RoleCarrier},
	ActionBidList:     {domain.RoleShipper, domain.RoleCarrier, domain.RoleCompany, domain.RoleAdmin},
	ActionBidDecide:   {domain.RoleShipper, domain.RoleCompany, domain.RoleAdmin},
	ActionBidWithdraw: {domain.RoleCarrier},

	ActionDriverManage:   {domain.RoleCarrier, domain.RoleFleetManager, domain.RoleCompany, domain.RoleAdmin},
	ActionDriverLocation: {domain.RoleDriver, domain.RoleCarrier, domain.RoleFleetManager, domain.RoleAdmin},
	ActionVehicleManage:  {domain.RoleCarrier, domain.RoleFleetManager, domain.RoleCompany, domain.RoleAdmin},

	ActionTrackingAppend: {domain.RoleCarrier, domain.RoleDriver, domain.RoleAdmin},
	ActionTrackingRead:   anyRole(),

	ActionIssueCreate:  anyRole(),
	ActionIssueResolve: {domain.RoleAdmin},

	ActionProofSubmit: {domain.RoleCarrier, domain.RoleDriver, domain.RoleAdmin},

	ActionNotificationSend: {domain.RoleAdmin},

	ActionCustomerManage: {domain.RoleCompany, domain.RoleAdmin},

	ActionPricingEstimate: anyRole(),
}

func anyRole() []domain.Role {
	return []domain.Role{
		domain.RoleShipper, domain.RoleCarrier, domain.RoleAdmin,
		domain.RoleCompany, domain.RoleDriver, domain.RoleFleetManager,
	}
}

// Allowed reports whether a role may perform an action at all.
func Allowed(role domain.Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freight-marketplace-service/internal/domain"
)

func TestPolicyTable(t *testing.T) {
	cases := []struct {
		role   domain.Role
		action Action
		want   bool
	}{
		{domain.RoleShipper, ActionShipmentCreate, true},
		{domain.RoleCarrier, ActionShipmentCreate, false},
		{domain.RoleCarrier, ActionBidSubmit, true},
		{domain.RoleShipper, ActionBidSubmit, false},
		{domain.RoleShipper, ActionBidDecide, true},
		{domain.RoleCarrier, ActionBidDecide, false},
		{domain.RoleCarrier, ActionBidWithdraw, true},
		{domain.RoleDriver, ActionProofSubmit, true},
		{domain.RoleShipper, ActionProofSubmit, false},
		{domain.RoleAdmin, ActionIssueResolve, true},
		{domain.RoleCarrier, ActionIssueResolve, false},
		{domain.RoleAdmin, ActionNotificationSend, true},
		{domain.RoleShipper, ActionNotificationSend, false},
		{domain.RoleCompany, ActionCustomerManage, true},
		{domain.RoleCarrier, ActionCustomerManage, false},
		{domain.RoleDriver, ActionPricingEstimate, true},
		{domain.RoleFleetManager, ActionVehicleManage, true},
		{domain.RoleDriver, ActionVehicleManage, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Allowed(c.role, c.action),
			"role=%s action=%s", c.role, c.action)
	}
}

func TestPolicyUnknownAction(t *testing.T) {
	assert.False(t, Allowed(domain.RoleAdmin, Action("no.such.action")))
}

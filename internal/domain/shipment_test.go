package domain

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to ShipmentStatus }{
		{ShipmentPosted, ShipmentAssigned},
		{ShipmentPosted, ShipmentCancelled},
		{ShipmentAssigned, ShipmentInTransit},
		{ShipmentAssigned, ShipmentCancelled},
		{ShipmentInTransit, ShipmentDelivered},
	}
	for _, tr := range allowed {
		if !CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to ShipmentStatus }{
		{ShipmentPosted, ShipmentInTransit},
		{ShipmentPosted, ShipmentDelivered},
		{ShipmentInTransit, ShipmentCancelled},
		{ShipmentDelivered, ShipmentPosted},
		{ShipmentCancelled, ShipmentAssigned},
		{ShipmentAssigned, ShipmentPosted},
	}
	for _, tr := range denied {
		if CanTransition(tr.from, tr.to) {
			t.Errorf("expected %s -> %s denied", tr.from, tr.to)
		}
	}
}

func TestValidateTransitionConflict(t *testing.T) {
	err := ValidateTransition(ShipmentDelivered, ShipmentInTransit)
	if err == nil {
		t.Fatal("expected error for transition out of terminal state")
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := ValidateTransition(ShipmentPosted, ShipmentAssigned); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBidAmount(t *testing.T) {
	if err := ValidateBidAmount(0); err == nil {
		t.Error("expected zero amount rejected")
	}
	if err := ValidateBidAmount(-150); err == nil {
		t.Error("expected negative amount rejected")
	}
	if err := ValidateBidAmount(1200.50); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !IsValidation(ValidateBidAmount(-1)) {
		t.Error("expected a validation error")
	}
}

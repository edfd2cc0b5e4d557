package model

import "testing"

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"pending", OrderStatusPending, "PENDING"},
		{"approved", OrderStatusApproved, "APPROVED"},
		{"declined", OrderStatusDeclined, "DECLINED"},
		{"voided", OrderStatusVoided, "VOIDED"},
		{"error", OrderStatusError, "ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want OrderStatus
	}{
		{"PENDING", OrderStatusPending},
		{"APPROVED", OrderStatusApproved},
		{"DECLINED", OrderStatusDeclined},
		{"VOIDED", OrderStatusVoided},
		{"ERROR", OrderStatusError},
		{"approved", OrderStatusError},
		{"FRAUD_REVIEW", OrderStatusError},
		{"", OrderStatusError},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw); got != tc.want {
			t.Fatalf("NormalizeStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderStatusPending.Terminal() {
		t.Fatal("PENDING must not be terminal")
	}
	for _, s := range []OrderStatus{OrderStatusApproved, OrderStatusDeclined, OrderStatusVoided, OrderStatusError} {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}
}

func TestDeliveryStatusValues(t *testing.T) {
	cases := []struct {
		status DeliveryStatus
		value  string
	}{
		{DeliveryStatusPendingShipment, "PENDING_SHIPMENT"},
		{DeliveryStatusShipped, "SHIPPED"},
		{DeliveryStatusDelivered, "DELIVERED"},
		{DeliveryStatusCanceled, "CANCELED"},
	}

	for _, tc := range cases {
		if string(tc.status) != tc.value {
			t.Fatalf("expected %s, got %s", tc.value, tc.status)
		}
	}
}

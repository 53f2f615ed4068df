package models

import (
	"reflect"
	"testing"
)

func TestURLList_Value(t *testing.T) {
	var nilList URLList
	v, err := nilList.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if string(v.([]byte)) != "[]" {
		t.Errorf("nil URLList.Value = %s, want []", v)
	}

	list := URLList{"a.jpg", "b.jpg"}
	v, err = list.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if string(v.([]byte)) != `["a.jpg","b.jpg"]` {
		t.Errorf("URLList.Value = %s", v)
	}
}

func TestURLList_Scan(t *testing.T) {
	var list URLList
	if err := list.Scan([]byte(`["x.png","y.png"]`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !reflect.DeepEqual(list, URLList{"x.png", "y.png"}) {
		t.Errorf("Scan result = %v", list)
	}

	// NULL column scans to an empty list, not nil
	if err := list.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("Scan(nil) = %v, want empty list", list)
	}

	if err := list.Scan(42); err == nil {
		t.Error("expected error scanning int into URLList")
	}
}

func TestIsValidVendorStatus(t *testing.T) {
	for _, s := range []string{VendorStatusPending, VendorStatusApproved, VendorStatusRejected} {
		if !IsValidVendorStatus(s) {
			t.Errorf("IsValidVendorStatus(%q) = false", s)
		}
	}
	if IsValidVendorStatus("archived") {
		t.Error("IsValidVendorStatus(archived) = true")
	}
}

func TestIsValidTier(t *testing.T) {
	for _, tier := range []string{TierFree, TierSilver, TierGold} {
		if !IsValidTier(tier) {
			t.Errorf("IsValidTier(%q) = false", tier)
		}
	}
	if IsValidTier("platinum") {
		t.Error("IsValidTier(platinum) = true")
	}
}

func TestVendor_IsApproved(t *testing.T) {
	v := Vendor{Status: VendorStatusPending}
	if v.IsApproved() {
		t.Error("pending vendor reported approved")
	}
	v.Status = VendorStatusApproved
	if !v.IsApproved() {
		t.Error("approved vendor reported not approved")
	}
}

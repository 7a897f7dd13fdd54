package models

import (
	"encoding/json"
	"testing"
)

func TestRecipient(t *testing.T) {
	single := SingleIdentity("alice")
	if single.IsAllAdmins() {
		t.Error("SingleIdentity reported as AllAdmins")
	}
	if h, ok := single.Identity(); !ok || h != "alice" {
		t.Errorf("Identity() = %q, %v", h, ok)
	}

	admins := RecipientFromHandle(AdminHandle)
	if !admins.IsAllAdmins() {
		t.Error("reserved handle did not decode to AllAdmins")
	}
	if _, ok := admins.Identity(); ok {
		t.Error("AllAdmins must not expose an identity")
	}

	var zero Recipient
	if zero.Valid() {
		t.Error("zero Recipient reported valid")
	}
}

func TestRecipient_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		R Recipient `json:"r"`
	}{AllAdmins()})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"r":"admin"}` {
		t.Errorf("marshal = %s", b)
	}
}

func TestNotification_OwnedBy(t *testing.T) {
	n := &Notification{Recipient: SingleIdentity("alice")}
	if !n.OwnedBy(Caller{Username: "alice", Role: RoleUser}) {
		t.Error("recipient does not own its notification")
	}
	if n.OwnedBy(Caller{Username: "root", Role: RoleAdmin}) {
		t.Error("admin owns another identity's notification")
	}

	a := &Notification{Recipient: AllAdmins()}
	if !a.OwnedBy(Caller{Username: "root", Role: RoleAdmin}) {
		t.Error("admin does not own admin-pool notification")
	}
	if a.OwnedBy(Caller{Username: "admin", Role: RoleUser}) {
		t.Error("regular identity named admin owns admin-pool notification")
	}
}

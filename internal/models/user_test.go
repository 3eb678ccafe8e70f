package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestUserEmailAllowsDuplicates(t *testing.T) {
	field, ok := reflect.TypeOf(User{}).FieldByName("Email")
	if !ok {
		t.Fatal("User has no Email field")
	}
	// Users without an email all mirror the empty string; a unique index on
	// the column would reject every such user after the first.
	if strings.Contains(field.Tag.Get("gorm"), "uniqueIndex") {
		t.Error("email must not carry a unique index on the mirror")
	}
}

func TestUserExternalIDIsUnique(t *testing.T) {
	field, ok := reflect.TypeOf(User{}).FieldByName("ExternalID")
	if !ok {
		t.Fatal("User has no ExternalID field")
	}
	if !strings.Contains(field.Tag.Get("gorm"), "uniqueIndex") {
		t.Error("external id is the mirror's identity and must be unique")
	}
}

// Clipframe - Video Sharing Platform Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/clipframe

package validation

import (
	"strings"
	"testing"
)

type registerPayload struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidateStructCollectsFailures(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Username: "al",
		Email:    "not-an-email",
	})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	fields := err.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(fields), fields)
	}

	msg := err.Error()
	for _, want := range []string{
		"Username must be at least 3 characters",
		"Email must be a valid email address",
		"Password is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestTranslateOneof(t *testing.T) {
	type payload struct {
		Store string `validate:"oneof=memory badger redis"`
	}
	err := ValidateStruct(&payload{Store: "etcd"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "Store must be one of: memory badger redis") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

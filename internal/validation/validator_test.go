// Menubarr - Plex Menu Bar Companion Engine
// Copyright 2026 Kevin Lake
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevinlake/menubarr

package validation

import (
	"strings"
	"testing"
)

type testRequest struct {
	URL   string `validate:"required,url"`
	Count int    `validate:"min=1,max=100"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	req := testRequest{URL: "http://hooks.example.com/menubarr", Count: 5}
	if verr := ValidateStruct(&req); verr != nil {
		t.Errorf("unexpected validation error: %v", verr)
	}
}

func TestValidateStructRequired(t *testing.T) {
	t.Parallel()

	req := testRequest{Count: 5}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(verr.Error(), "URL is required") {
		t.Errorf("message = %q", verr.Error())
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	t.Parallel()

	req := testRequest{URL: "not a url", Count: 0}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if len(verr.Fields()) != 2 {
		t.Errorf("fields = %d, want 2", len(verr.Fields()))
	}
	if !strings.Contains(verr.Error(), "Count must be at least 1") {
		t.Errorf("message = %q", verr.Error())
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("validator must be a singleton")
	}
}

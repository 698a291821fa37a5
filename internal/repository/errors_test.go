package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestReferenceError_ForeignKeyViolation(t *testing.T) {
	pqErr := &pq.Error{Code: pgForeignKeyViolation, Constraint: ConstraintOrderDetailStock}
	wrapped := fmt.Errorf("insert: %w", pqErr)

	refErr := referenceError(wrapped, 42)
	if refErr == nil {
		t.Fatal("expected ReferenceError")
	}
	if refErr.Constraint != ConstraintOrderDetailStock {
		t.Errorf("Constraint = %q, want %q", refErr.Constraint, ConstraintOrderDetailStock)
	}
	if refErr.ID != 42 {
		t.Errorf("ID = %d, want 42", refErr.ID)
	}

	var target *pq.Error
	if !errors.As(refErr, &target) {
		t.Error("ReferenceError should unwrap to *pq.Error")
	}
}

func TestReferenceError_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("boom")},
		{"unique violation", &pq.Error{Code: pgUniqueViolation}},
		{"check violation", &pq.Error{Code: "23514"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := referenceError(tt.err, 1); got != nil {
				t.Errorf("expected nil, got %v", got)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: pgUniqueViolation}) {
		t.Error("expected unique violation to be detected")
	}
	if isUniqueViolation(&pq.Error{Code: pgForeignKeyViolation}) {
		t.Error("foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("x")) {
		t.Error("plain error is not a unique violation")
	}
}

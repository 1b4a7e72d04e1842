package services_test

import (
	"context"
	"testing"

	"orchive/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-42")
	ctx = services.WithStage(ctx, "transcribe")
	ctx = services.WithFile(ctx, "/archive/1985/tape01/a.wav")
	ctx = services.WithUnit(ctx, "a_L")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-42" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcribe" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "/archive/1985/tape01/a.wav" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
	if unit, ok := services.UnitFromContext(ctx); !ok || unit != "a_L" {
		t.Fatalf("unexpected unit: %v %v", unit, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
}

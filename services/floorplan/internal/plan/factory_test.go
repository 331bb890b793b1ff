package plan

import (
	"testing"

	"github.com/google/uuid"
)

func TestMakeTableNodeDefaults(t *testing.T) {
	tests := []struct {
		name      string
		size      Size
		wantSeats int
		wantRatio float64
	}{
		{name: "small", size: SizeSmall, wantSeats: 2, wantRatio: 0.06},
		{name: "medium", size: SizeMedium, wantSeats: 4, wantRatio: 0.075},
		{name: "large", size: SizeLarge, wantSeats: 6, wantRatio: 0.09},
		{name: "unknownFallsBackToMedium", size: Size("huge"), wantSeats: 4, wantRatio: 0.075},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			node := s.MakeTableNode(ZoneA, tt.size, 0.5, 0.5)

			if node.ID == uuid.Nil {
				t.Error("MakeTableNode() should assign an id")
			}
			if node.Seats != tt.wantSeats {
				t.Errorf("Seats = %d, want %d", node.Seats, tt.wantSeats)
			}
			if node.SizeRatio != tt.wantRatio {
				t.Errorf("SizeRatio = %v, want %v", node.SizeRatio, tt.wantRatio)
			}
			if node.Status != StatusAvailable {
				t.Errorf("Status = %q, want %q", node.Status, StatusAvailable)
			}
			if node.Shape != ShapeSquare {
				t.Errorf("Shape = %q, want %q", node.Shape, ShapeSquare)
			}
			if node.Grouped() {
				t.Error("new table should not be grouped")
			}
		})
	}
}

func TestMakeTableNodeLabels(t *testing.T) {
	s := NewStore()

	size, ok := ParseSize("SMALL")
	if !ok {
		t.Fatal("ParseSize(SMALL) should be accepted")
	}

	first := s.MakeTableNode(ZoneA, size, 0.5, 0.5)
	if first.Label != "A1" || first.Seats != 2 || first.SizeRatio != 0.06 {
		t.Fatalf("first table = %+v, want label A1 seats 2 ratio 0.06", first)
	}
	s.Add(first)

	second := s.MakeTableNode(ZoneA, SizeSmall, 0.2, 0.2)
	if second.Label != "A2" {
		t.Errorf("second label = %q, want A2", second.Label)
	}
	s.Add(second)

	other := s.MakeTableNode(ZoneB, SizeLarge, 0.7, 0.7)
	if other.Label != "B1" {
		t.Errorf("zone B label = %q, want B1", other.Label)
	}
}

func TestMakeTableNodeLabelsRepeatAfterDelete(t *testing.T) {
	s := NewStore()
	a1 := s.MakeTableNode(ZoneA, SizeSmall, 0.1, 0.1)
	s.Add(a1)
	a2 := s.MakeTableNode(ZoneA, SizeSmall, 0.2, 0.1)
	s.Add(a2)

	s.Remove(a1.ID)

	again := s.MakeTableNode(ZoneA, SizeSmall, 0.3, 0.1)
	if again.Label != "A2" {
		t.Fatalf("label after delete = %q, want A2", again.Label)
	}
	if !s.Add(again) {
		t.Fatal("Add() should accept a table whose label repeats")
	}

	count := 0
	for _, tbl := range s.Tables() {
		if tbl.Label == "A2" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("tables labelled A2 = %d, want 2", count)
	}
}

func TestMakeObjectNodeDefaults(t *testing.T) {
	tests := []struct {
		name       string
		typ        ObjectType
		wantLabel  string
		wantWidth  float64
		wantHeight float64
	}{
		{name: "stage", typ: ObjectStage, wantLabel: "Stage", wantWidth: 0.30, wantHeight: 0.15},
		{name: "screen", typ: ObjectScreen, wantLabel: "Screen", wantWidth: 0.12, wantHeight: 0.08},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewObjectNode(tt.typ, 2, -1)
			if o.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", o.Label, tt.wantLabel)
			}
			if o.Width != tt.wantWidth || o.Height != tt.wantHeight {
				t.Errorf("extent = %vx%v, want %vx%v", o.Width, o.Height, tt.wantWidth, tt.wantHeight)
			}
			if o.X != 1 || o.Y != 0 {
				t.Errorf("position = (%v,%v), want clamped (1,0)", o.X, o.Y)
			}
			if o.Color == "" {
				t.Error("Color should be defaulted")
			}
		})
	}
}

func TestParseEnums(t *testing.T) {
	if z, ok := ParseZone(" b "); !ok || z != ZoneB {
		t.Errorf("ParseZone(b) = %q, %v", z, ok)
	}
	if _, ok := ParseZone("C"); ok {
		t.Error("ParseZone(C) should be rejected")
	}
	if s, ok := ParseStatus("RESERVED"); !ok || s != StatusReserved {
		t.Errorf("ParseStatus(RESERVED) = %q, %v", s, ok)
	}
	if _, ok := ParseShape("triangle"); ok {
		t.Error("ParseShape(triangle) should be rejected")
	}
	if ot, ok := ParseObjectType("Screen"); !ok || ot != ObjectScreen {
		t.Errorf("ParseObjectType(Screen) = %q, %v", ot, ok)
	}
}

package models

import "testing"

func TestOccupyWith(t *testing.T) {
	tests := []struct {
		name     string
		status   TableStatus
		isActive bool
		want     bool
	}{
		{"available and active", TableStatusAvailable, true, true},
		{"available but inactive", TableStatusAvailable, false, false},
		{"already occupied", TableStatusOccupied, true, false},
		{"reserved", TableStatusReserved, true, false},
		{"cleaning", TableStatusCleaning, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := DiningTable{Status: tt.status, IsActive: tt.isActive}
			if tt.status == TableStatusOccupied {
				existing := int64(7)
				table.CurrentOrderID = &existing
			}

			got := table.OccupyWith(42)
			if got != tt.want {
				t.Fatalf("OccupyWith = %v, want %v", got, tt.want)
			}
			if tt.want {
				if table.Status != TableStatusOccupied {
					t.Errorf("Status = %s after successful occupy", table.Status)
				}
				if table.CurrentOrderID == nil || *table.CurrentOrderID != 42 {
					t.Errorf("CurrentOrderID = %v, want 42", table.CurrentOrderID)
				}
			} else if table.Status != tt.status {
				t.Errorf("failed occupy mutated status to %s", table.Status)
			}
		})
	}
}

func TestFreeIsIdempotent(t *testing.T) {
	orderID := int64(9)
	table := DiningTable{Status: TableStatusOccupied, CurrentOrderID: &orderID, IsActive: true}

	table.Free()
	if table.Status != TableStatusAvailable || table.CurrentOrderID != nil {
		t.Fatalf("after first Free: status=%s ref=%v", table.Status, table.CurrentOrderID)
	}

	// Freeing an already-available table is a no-op, not an error.
	table.Free()
	if table.Status != TableStatusAvailable || table.CurrentOrderID != nil {
		t.Fatalf("after second Free: status=%s ref=%v", table.Status, table.CurrentOrderID)
	}
}

func TestOccupancyInvariant(t *testing.T) {
	// Status occupied and the order reference must always move together.
	table := DiningTable{Status: TableStatusAvailable, IsActive: true}

	if !table.OccupyWith(3) {
		t.Fatal("OccupyWith failed on available table")
	}
	if table.Status == TableStatusOccupied && table.CurrentOrderID == nil {
		t.Error("occupied without order reference")
	}

	table.Free()
	if table.Status != TableStatusOccupied && table.CurrentOrderID != nil {
		t.Error("order reference survived without occupied status")
	}
}

func TestReserveAndRelease(t *testing.T) {
	table := DiningTable{Status: TableStatusAvailable, IsActive: true}

	if !table.Reserve() {
		t.Fatal("Reserve failed on available table")
	}
	if table.Status != TableStatusReserved {
		t.Fatalf("Status = %s, want reserved", table.Status)
	}
	if table.Reserve() {
		t.Error("Reserve succeeded on already reserved table")
	}

	if !table.ReleaseReservation() {
		t.Fatal("ReleaseReservation failed on reserved table")
	}
	if table.Status != TableStatusAvailable {
		t.Fatalf("Status = %s, want available", table.Status)
	}
	if table.ReleaseReservation() {
		t.Error("ReleaseReservation succeeded on available table")
	}
}

func TestCanSetHousekeepingStatus(t *testing.T) {
	tests := []struct {
		name string
		from TableStatus
		to   TableStatus
		want bool
	}{
		{"available to cleaning", TableStatusAvailable, TableStatusCleaning, true},
		{"cleaning to available", TableStatusCleaning, TableStatusAvailable, true},
		{"occupied to cleaning requires free first", TableStatusOccupied, TableStatusCleaning, false},
		{"available to occupied bypasses coordinator", TableStatusAvailable, TableStatusOccupied, false},
		{"reserved to cleaning", TableStatusReserved, TableStatusCleaning, false},
		{"cleaning to reserved", TableStatusCleaning, TableStatusReserved, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := DiningTable{Status: tt.from, IsActive: true}
			if got := table.CanSetHousekeepingStatus(tt.to); got != tt.want {
				t.Errorf("CanSetHousekeepingStatus(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

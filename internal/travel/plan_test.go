package travel

import "testing"

func samplePlan() Plan {
	return Plan{
		Regions: []string{"engine1", "engine2", "engine3"},
		Matrix: [][]int{
			{0, 156, 10},
			{0, 0, 290},
			{90, 75, 0},
		},
		LockdownTravelers: 3,
	}
}

func TestValidateRegions(t *testing.T) {
	p := samplePlan()
	if !p.ValidateRegions([]string{"engine1", "engine2", "engine3"}) {
		t.Error("expected exact-set regions to validate")
	}
	if !p.ValidateRegions([]string{"engine3", "engine2", "engine1"}) {
		t.Error("expected permuted regions to validate")
	}
	if p.ValidateRegions([]string{"engine3"}) {
		t.Error("did not expect a subset to validate")
	}
	if p.ValidateRegions([]string{"engine1", "engine2", "engine3", "engine4"}) {
		t.Error("did not expect a superset to validate")
	}
}

func TestUpdateWithLockdownsMatchesScenario(t *testing.T) {
	p := samplePlan()
	locked := map[string]bool{"engine1": false, "engine2": true, "engine3": false}

	updated := p.UpdateWithLockdowns(locked)

	want := [][]int{
		{0, 3, 10},
		{0, 0, 3},
		{90, 3, 0},
	}
	for i := range want {
		for j := range want[i] {
			if updated.Matrix[i][j] != want[i][j] {
				t.Fatalf("matrix[%d][%d] = %d, want %d", i, j, updated.Matrix[i][j], want[i][j])
			}
		}
	}
}

func TestUpdateWithLockdownsIsIdempotent(t *testing.T) {
	p := samplePlan()
	locked := map[string]bool{"engine1": false, "engine2": true, "engine3": false}

	once := p.UpdateWithLockdowns(locked)
	twice := once.UpdateWithLockdowns(locked)

	for i := range once.Matrix {
		for j := range once.Matrix[i] {
			if once.Matrix[i][j] != twice.Matrix[i][j] {
				t.Fatalf("lockdown application not idempotent at [%d][%d]: %d != %d",
					i, j, once.Matrix[i][j], twice.Matrix[i][j])
			}
		}
	}
}

func TestAllocOutgoingToRegionsTruncatesToPool(t *testing.T) {
	p := samplePlan()
	pl := NewPlanner(p, "engine3") // row [90, 75, 0], sum=165

	allocs, actual := pl.AllocOutgoingToRegions(10)
	if actual > 10 {
		t.Fatalf("actual outgoing %d exceeds pool size 10", actual)
	}
	sum := 0
	for _, a := range allocs {
		sum += a.Count
	}
	if sum != actual {
		t.Fatalf("allocations sum to %d, want %d", sum, actual)
	}
}

func TestIncomingRegionsCount(t *testing.T) {
	p := samplePlan()
	if got := p.IncomingRegionsCount("engine3"); got != 2 {
		t.Errorf("engine3 incoming regions = %d, want 2", got)
	}
	if got := p.IncomingRegionsCount("engine2"); got != 2 {
		t.Errorf("engine2 incoming regions = %d, want 2", got)
	}
}

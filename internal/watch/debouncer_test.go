package watch

import (
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []string {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func Test_Debouncer_Collapsing(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/hives/SYSTEM")
	d.Add("/hives/SYSTEM")
	d.Add("/hives/SYSTEM")

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 || batch[0] != "/hives/SYSTEM" {
		t.Fatalf("expected one collapsed path, got %v", batch)
	}
}

func Test_Debouncer_SortedBatch(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Add("/hives/SYSTEM")
	d.Add("/hives/SAM")
	d.Add("/hives/SOFTWARE")

	batch := receiveBatch(t, d, 500*time.Millisecond)
	want := []string{"/hives/SAM", "/hives/SOFTWARE", "/hives/SYSTEM"}
	if len(batch) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), batch)
	}
	for i := range want {
		if batch[i] != want[i] {
			t.Errorf("batch[%d] = %s, want %s", i, batch[i], want[i])
		}
	}
}

func Test_Debouncer_Stop(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("/hives/SYSTEM")
	d.Stop()

	select {
	case batch := <-d.Output():
		t.Fatalf("expected no batch after Stop, got %v", batch)
	case <-time.After(4 * testInterval):
	}
}

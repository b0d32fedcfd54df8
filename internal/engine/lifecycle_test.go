package engine

import "testing"

func TestRecordLifecycle(t *testing.T) {
	allowed := [][2]RecordStatus{
		{RecordPending, RecordReviewed},
		{RecordPending, RecordDisputed},
		{RecordReviewed, RecordFinalized},
		{RecordReviewed, RecordDisputed},
		{RecordDisputed, RecordFinalized},
	}
	for _, tr := range allowed {
		if err := TransitionRecord(tr[0], tr[1]); err != nil {
			t.Errorf("Expected %s -> %s to be allowed: %v", tr[0], tr[1], err)
		}
	}

	denied := [][2]RecordStatus{
		{RecordPending, RecordFinalized},
		{RecordReviewed, RecordPending},
		{RecordFinalized, RecordReviewed},
		{RecordFinalized, RecordDisputed},
		{RecordDisputed, RecordPending},
	}
	for _, tr := range denied {
		if err := TransitionRecord(tr[0], tr[1]); err == nil {
			t.Errorf("Expected %s -> %s to be rejected", tr[0], tr[1])
		}
	}
}

func TestExceptionLifecycleIsOneWay(t *testing.T) {
	if err := TransitionException(ExceptionPending, ExceptionAcknowledged); err != nil {
		t.Errorf("Pending -> Acknowledged must be allowed: %v", err)
	}
	if err := TransitionException(ExceptionAcknowledged, ExceptionPending); err == nil {
		t.Error("Acknowledged -> Pending must be rejected")
	}
	if err := TransitionException(ExceptionAcknowledged, ExceptionAcknowledged); err == nil {
		t.Error("Acknowledged is terminal")
	}
}

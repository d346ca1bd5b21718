package models

import "testing"

func TestSessionLifecycle(t *testing.T) {
	session := Session{ID: "s1", CreatedAt: 1000}
	if !session.IsActive() {
		t.Error("session without endedAt should be active")
	}
	if _, ok := session.Length(); ok {
		t.Error("active session has no length")
	}

	end := int64(4000)
	session.EndedAt = &end
	if session.IsActive() {
		t.Error("ended session should not be active")
	}
	length, ok := session.Length()
	if !ok || length != 3000 {
		t.Errorf("Length = %d/%v, want 3000/true", length, ok)
	}
}

func TestSessionNegativeLength(t *testing.T) {
	end := int64(500)
	session := Session{CreatedAt: 1000, EndedAt: &end}
	if _, ok := session.Length(); ok {
		t.Error("clock-skewed session must not report a length")
	}
}

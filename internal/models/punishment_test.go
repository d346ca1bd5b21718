package models

import "testing"

func TestPunishmentIsActive(t *testing.T) {
	now := int64(1_000_000)
	tests := []struct {
		name      string
		length    int64
		issuedAt  int64
		reversion *PunishmentReversion
		want      bool
	}{
		{"permanent", PermanentLength, 0, nil, true},
		{"unexpired", 10_000, now - 5_000, nil, true},
		{"expired", 10_000, now - 20_000, nil, false},
		{"reverted permanent", PermanentLength, 0, &PunishmentReversion{}, false},
		{"reverted unexpired", 10_000, now - 5_000, &PunishmentReversion{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pun := Punishment{
				IssuedAt:  tt.issuedAt,
				Action:    PunishmentAction{Kind: PunishmentBan, Length: tt.length},
				Reversion: tt.reversion,
			}
			if got := pun.IsActive(now); got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPunishmentExpiresAt(t *testing.T) {
	permanent := Punishment{Action: PunishmentAction{Length: PermanentLength}, IssuedAt: 500}
	if got := permanent.ExpiresAt(); got != PermanentLength {
		t.Errorf("ExpiresAt for permanent = %d, want %d", got, int64(PermanentLength))
	}

	timed := Punishment{Action: PunishmentAction{Length: 1000}, IssuedAt: 500}
	if got := timed.ExpiresAt(); got != 1500 {
		t.Errorf("ExpiresAt = %d, want 1500", got)
	}
}

func TestPunishmentIsBan(t *testing.T) {
	tests := []struct {
		kind PunishmentKind
		want bool
	}{
		{PunishmentBan, true},
		{PunishmentIPBan, true},
		{PunishmentMute, false},
		{PunishmentWarn, false},
		{PunishmentKick, false},
	}
	for _, tt := range tests {
		action := PunishmentAction{Kind: tt.kind}
		if got := action.IsBan(); got != tt.want {
			t.Errorf("IsBan(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

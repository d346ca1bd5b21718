package socket

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPacketRoundTrip(t *testing.T) {
	tests := []struct {
		event   EventType
		payload any
	}{
		{EventMatchLoad, MatchLoadData{MapID: "map1", Parties: []PartyData{{Name: "Red", Alias: "RED", Color: "red", Min: 1, Max: 8}}}},
		{EventMatchStart, MatchStartData{}},
		{EventMatchEnd, MatchEndData{WinningParties: []string{"Red"}}},
		{EventPlayerDeath, PlayerDeathData{Key: "k", Cause: "VOID"}},
		{EventPlayerChat, PlayerChatData{Message: "hi", Channel: ChatGlobal}},
		{EventKillstreak, KillstreakData{Amount: 5}},
		{EventPartyJoin, PartyJoinData{PartyName: "Red"}},
		{EventPartyLeave, PartyLeaveData{}},
		{EventDestroyableDamage, DestroyableDamageData{DestroyableID: "d1", Damage: 3, PlayerID: "u1"}},
		{EventDestroyableDestroy, DestroyableDestroyData{DestroyableID: "d1"}},
		{EventCoreLeak, CoreLeakData{CoreID: "c1"}},
		{EventFlagCapture, FlagDropData{FlagID: "f1", PlayerID: "u1", HeldTime: 42}},
		{EventFlagPickup, FlagEventData{FlagID: "f1", PlayerID: "u1"}},
		{EventWoolCapture, WoolDropData{WoolID: "w1", PlayerID: "u1", HeldTime: 7}},
		{EventControlPointCapture, ControlPointCaptureData{PointID: "p1", PlayerIDs: []string{"u1"}}},
		{EventPlayerXPGain, PlayerXPGainData{PlayerID: "u1", Gain: 40, Reason: "Kill", Notify: true}},
		{EventForceMatchEnd, struct{}{}},
		{EventMessage, MessageData{Message: "hello", PlayerIDs: []string{"u1"}}},
		{EventDisconnectPlayer, DisconnectPlayerData{PlayerID: "u1", Reason: "bye"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			frame, err := EncodePacket(tt.event, tt.payload)
			if err != nil {
				t.Fatalf("EncodePacket: %v", err)
			}

			packet, err := DecodePacket(frame)
			if err != nil {
				t.Fatalf("DecodePacket: %v", err)
			}
			if packet.Event != tt.event {
				t.Errorf("event = %s, want %s", packet.Event, tt.event)
			}

			wantJSON, _ := json.Marshal(tt.payload)
			var want, got any
			json.Unmarshal(wantJSON, &want)
			json.Unmarshal(packet.Data, &got)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("payload = %v, want %v", got, want)
			}
		})
	}
}

func TestDecodePacketRejectsGarbage(t *testing.T) {
	if _, err := DecodePacket([]byte("not zlib at all")); err == nil {
		t.Error("raw garbage should not decode")
	}
}

package models

// PermanentLength is the sentinel punishment length for "never expires".
const PermanentLength = -1

type PunishmentKind string

const (
	PunishmentWarn  PunishmentKind = "WARN"
	PunishmentKick  PunishmentKind = "KICK"
	PunishmentMute  PunishmentKind = "MUTE"
	PunishmentBan   PunishmentKind = "BAN"
	PunishmentIPBan PunishmentKind = "IP_BAN"
)

type Punishment struct {
	ID        string               `json:"_id" bson:"_id"`
	Reason    PunishmentReason     `json:"reason" bson:"reason"`
	IssuedAt  int64                `json:"issuedAt" bson:"issuedAt"`
	Silent    bool                 `json:"silent" bson:"silent"`
	Offence   int                  `json:"offence" bson:"offence"`
	Action    PunishmentAction     `json:"action" bson:"action"`
	Note      *string              `json:"note" bson:"note"`
	Punisher  *SimplePlayer        `json:"punisher" bson:"punisher"`
	Target    SimplePlayer         `json:"target" bson:"target"`
	TargetIPs []string             `json:"targetIps" bson:"targetIps"`
	Reversion *PunishmentReversion `json:"reversion" bson:"reversion"`
	ServerID  *string              `json:"serverId" bson:"serverId"`
}

// ExpiresAt returns the expiry timestamp, or PermanentLength for permanent
// punishments.
func (p *Punishment) ExpiresAt() int64 {
	if p.Action.Length == PermanentLength {
		return PermanentLength
	}
	return p.IssuedAt + p.Action.Length
}

// IsActive reports whether the punishment still applies at now: never when
// reverted, always when permanent, otherwise until expiry.
func (p *Punishment) IsActive(now int64) bool {
	if p.Reversion != nil {
		return false
	}
	return p.Action.Length == PermanentLength || now < p.ExpiresAt()
}

type PunishmentAction struct {
	Kind   PunishmentKind `json:"kind" bson:"kind" yaml:"kind"`
	Length int64          `json:"length" bson:"length" yaml:"length"`
}

func (a PunishmentAction) IsBan() bool {
	return a.Kind == PunishmentBan || a.Kind == PunishmentIPBan
}

type PunishmentReason struct {
	Name    string `json:"name" bson:"name" yaml:"name"`
	Message string `json:"message" bson:"message" yaml:"message"`
	Short   string `json:"short" bson:"short" yaml:"short"`
}

type PunishmentReversion struct {
	RevertedAt int64        `json:"revertedAt" bson:"revertedAt"`
	Reverter   SimplePlayer `json:"reverter" bson:"reverter"`
	Reason     string       `json:"reason" bson:"reason"`
}

// PunishmentType is a staff-facing punishment preset loaded from the data
// files, not a database document.
type PunishmentType struct {
	Name               string             `json:"name" bson:"name" yaml:"name"`
	Short              string             `json:"short" bson:"short" yaml:"short"`
	Message            string             `json:"message" bson:"message" yaml:"message"`
	Actions            []PunishmentAction `json:"actions" bson:"actions" yaml:"actions"`
	Material           string             `json:"material" bson:"material" yaml:"material"`
	Position           int                `json:"position" bson:"position" yaml:"position"`
	Tip                *string            `json:"tip" bson:"tip" yaml:"tip"`
	RequiredPermission string             `json:"requiredPermission" bson:"requiredPermission" yaml:"requiredPermission"`
}

type StaffNote struct {
	ID        int          `json:"id" bson:"id"`
	Author    SimplePlayer `json:"author" bson:"author"`
	Content   string       `json:"content" bson:"content"`
	CreatedAt int64        `json:"createdAt" bson:"createdAt"`
}

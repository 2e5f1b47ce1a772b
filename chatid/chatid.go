package chatid

import (
	"encoding/json"
	"strings"
)

// transport domain suffixes used when an identifier arrives without one
const (
	GroupSuffix = "@g.us"
	UserSuffix  = "@s.whatsapp.net"
)

// JID is the structured group-identifier shape some transport payloads
// carry instead of a plain string.
type JID struct {
	Serialized string `json:"_serialized,omitempty"`
	ID         string `json:"id,omitempty"`
	LocalPart  string `json:"user,omitempty"`
	DomainPart string `json:"server,omitempty"`
}

type refKind int

const (
	refNone refKind = iota
	refString
	refJID
)

// Ref is a tagged union over the identifier shapes the transport layer
// produces: absent, plain string, or structured JID.
type Ref struct {
	kind refKind
	str  string
	jid  JID
}

// None returns the absent identifier.
func None() Ref { return Ref{} }

// FromString wraps a plain string identifier.
func FromString(s string) Ref { return Ref{kind: refString, str: s} }

// FromJID wraps a structured identifier.
func FromJID(j JID) Ref { return Ref{kind: refJID, jid: j} }

// IsZero reports whether the ref carries no identifier at all.
func (r Ref) IsZero() bool { return r.kind == refNone }

// Canonical resolves the ref to the canonical lowercase group key, or
// "" when no usable identifier exists. It is pure and never panics.
func (r Ref) Canonical() string {
	var raw string
	switch r.kind {
	case refString:
		raw = r.str
	case refJID:
		switch {
		case r.jid.Serialized != "":
			raw = r.jid.Serialized
		case r.jid.ID != "":
			raw = r.jid.ID
		case r.jid.LocalPart != "" && r.jid.DomainPart != "":
			raw = r.jid.LocalPart + "@" + r.jid.DomainPart
		}
	}
	return Normalize(raw)
}

// Normalize turns a raw string identifier into the canonical lowercase
// form used for every lookup and uniqueness check: trim, strip NULs,
// append the transport suffix when missing (hyphenated local parts are
// legacy group ids), lowercase.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\x00", "")
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "@") {
		if strings.Contains(s, "-") {
			s += GroupSuffix
		} else {
			s += UserSuffix
		}
	}
	return strings.ToLower(s)
}

// UnmarshalJSON accepts null, a JSON string, or a structured JID object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*r = None()
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = FromString(s)
		return nil
	}
	var j JID
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*r = FromJID(j)
	return nil
}

// MarshalJSON writes the canonical string form.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Canonical())
}

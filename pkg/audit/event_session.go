package audit

import "fmt"

// SessionEvent records unlock-session lifecycle: "issue" when a session is
// written after a successful unlock, "resume" when a later command reuses
// it, "clear" when it is destroyed.
type SessionEvent struct {
	Actor        string
	ClientIP     string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e SessionEvent) MessageID() string {
	return "session"
}

func (e SessionEvent) Message() string {
	if e.Success {
		switch e.Operation {
		case "issue":
			return fmt.Sprintf("%s issued an unlock session", e.Actor)
		case "resume":
			return fmt.Sprintf("%s resumed an unlock session", e.Actor)
		case "clear":
			return fmt.Sprintf("%s cleared the unlock session", e.Actor)
		}
		return fmt.Sprintf("%s %s an unlock session", e.Actor, pastTense(e.Operation))
	}
	msg := fmt.Sprintf("%s failed to %s an unlock session", e.Actor, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SessionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SessionEvent) Facility() int {
	return FacilityAuth
}

func (e SessionEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

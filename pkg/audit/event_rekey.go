package audit

import "fmt"

// RekeyEvent records a master password change. Every credential envelope is
// re-sealed under the new vault key; Resealed is how many.
type RekeyEvent struct {
	Actor        string
	ClientIP     string
	Resealed     int
	Success      bool
	ErrorMessage string
}

func (e RekeyEvent) MessageID() string {
	return "rekey"
}

func (e RekeyEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed the master password, re-sealing %d credential envelope(s)", e.Actor, e.Resealed)
	}
	msg := fmt.Sprintf("%s failed to change the master password", e.Actor)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RekeyEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RekeyEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RekeyEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDAction: {
			"operation": "rekey",
			"result":    result,
		},
	}
	if e.Success {
		sd[SDIDAction]["resealed"] = fmt.Sprintf("%d", e.Resealed)
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

package audit

import "fmt"

// InitEvent records creation (or re-creation) of the vault.
type InitEvent struct {
	Actor        string
	ClientIP     string
	VaultUUID    string
	VaultName    string
	Reinit       bool
	Success      bool
	ErrorMessage string
}

func (e InitEvent) MessageID() string {
	return "init"
}

func (e InitEvent) Message() string {
	verb := "initialized"
	if e.Reinit {
		verb = "re-initialized"
	}
	if e.Success {
		return fmt.Sprintf("%s %s vault %s", e.Actor, verb, e.VaultName)
	}
	msg := fmt.Sprintf("%s failed to initialize the vault", e.Actor)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e InitEvent) Severity() Severity {
	if e.Success {
		// Re-initialization destroys the previous vault, which deserves
		// more than an info line.
		if e.Reinit {
			return SeverityNotice
		}
		return SeverityInfo
	}
	return SeverityWarning
}

func (e InitEvent) Facility() int {
	return FacilityAuthPriv
}

func (e InitEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	operation := "init"
	if e.Reinit {
		operation = "reinit"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDAction: {
			"operation": operation,
			"result":    result,
		},
	}
	if e.VaultUUID != "" {
		sd[SDIDVault]["uuid"] = e.VaultUUID
	}
	if e.VaultName != "" {
		sd[SDIDVault]["name"] = e.VaultName
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

package audit

import (
	"fmt"
	"strings"
)

// pastTense turns an operation name into its past tense for messages:
// create -> created, fetch -> fetched.
func pastTense(op string) string {
	if strings.HasSuffix(op, "e") {
		return op + "d"
	}
	return op + "ed"
}

// UnlockEvent records an attempt to unlock the vault with the master
// password, from the CLI or a web login.
type UnlockEvent struct {
	Actor        string
	ClientIP     string
	VaultUUID    string
	Success      bool
	ErrorMessage string
}

func (e UnlockEvent) MessageID() string {
	return "unlock"
}

func (e UnlockEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s unlocked the vault", e.Actor)
	}
	msg := fmt.Sprintf("%s failed to unlock the vault", e.Actor)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e UnlockEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e UnlockEvent) Facility() int {
	return FacilityAuthPriv
}

func (e UnlockEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDAction: {
			"operation": "unlock",
			"result":    result,
		},
	}
	if e.VaultUUID != "" {
		sd[SDIDVault]["uuid"] = e.VaultUUID
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

// CredentialEvent records an operation on a single credential. Operation is
// one of "create", "fetch", "update" or "delete". Only the credential's
// name and aliases appear in the trail, never field values.
type CredentialEvent struct {
	Actor        string
	ClientIP     string
	Mnemonic     string
	Name         string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e CredentialEvent) MessageID() string {
	return "credential"
}

func (e CredentialEvent) Message() string {
	subject := e.Mnemonic
	if subject == "" {
		subject = e.Name
	}
	if e.Success {
		return fmt.Sprintf("%s %s credential %s", e.Actor, pastTense(e.Operation), subject)
	}
	msg := fmt.Sprintf("%s tried to %s credential %s", e.Actor, e.Operation, subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e CredentialEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e CredentialEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CredentialEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDSubject: {},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.Mnemonic != "" {
		sd[SDIDSubject]["mnemonic"] = e.Mnemonic
	}
	if e.Name != "" {
		sd[SDIDSubject]["credential"] = e.Name
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

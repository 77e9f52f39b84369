package audit

import (
	"fmt"
	"sort"
	"strings"
)

// VaultUpdateEvent records a change to vault metadata or session settings.
// Changed lists the attribute names that were touched, never their values.
type VaultUpdateEvent struct {
	Actor        string
	ClientIP     string
	Changed      []string
	Success      bool
	ErrorMessage string
}

func (e VaultUpdateEvent) MessageID() string {
	return "vault-update"
}

func (e VaultUpdateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s updated vault settings (%s)", e.Actor, strings.Join(e.sorted(), ", "))
	}
	msg := fmt.Sprintf("%s failed to update vault settings", e.Actor)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e VaultUpdateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e VaultUpdateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e VaultUpdateEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDAction: {
			"operation": "vault-update",
			"result":    result,
		},
	}
	if len(e.Changed) > 0 {
		sd[SDIDSubject] = map[string]string{"attributes": strings.Join(e.sorted(), ",")}
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

func (e VaultUpdateEvent) sorted() []string {
	changed := append([]string(nil), e.Changed...)
	sort.Strings(changed)
	return changed
}

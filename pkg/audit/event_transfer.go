package audit

import "fmt"

// TransferEvent records moving credentials across the vault boundary.
// Operation is "export" or "import". Encrypted says whether the bundle
// itself was protected with a file password.
type TransferEvent struct {
	Actor        string
	ClientIP     string
	Operation    string
	Count        int
	Skipped      int
	Encrypted    bool
	Success      bool
	ErrorMessage string
}

func (e TransferEvent) MessageID() string {
	return "transfer"
}

func (e TransferEvent) Message() string {
	kind := "a decrypted"
	if e.Encrypted {
		kind = "an encrypted"
	}
	if e.Success {
		msg := fmt.Sprintf("%s %s %d credential(s) via %s bundle", e.Actor, pastTense(e.Operation), e.Count, kind)
		if e.Skipped > 0 {
			msg += fmt.Sprintf(", %d skipped", e.Skipped)
		}
		return msg
	}
	msg := fmt.Sprintf("%s failed to %s %s bundle", e.Actor, e.Operation, kind)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TransferEvent) Severity() Severity {
	if !e.Success {
		return SeverityWarning
	}
	// A decrypted export puts plaintext on disk; make it stand out.
	if e.Operation == "export" && !e.Encrypted {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e TransferEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TransferEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	encrypted := "false"
	if e.Encrypted {
		encrypted = "true"
	}
	sd := map[string]map[string]string{
		SDIDVault: {
			"actor": e.Actor,
		},
		SDIDSubject: {
			"encrypted": encrypted,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.Success {
		sd[SDIDAction]["count"] = fmt.Sprintf("%d", e.Count)
		if e.Skipped > 0 {
			sd[SDIDAction]["skipped"] = fmt.Sprintf("%d", e.Skipped)
		}
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}

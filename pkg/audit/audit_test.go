package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := UnlockEvent{
		Actor:     "indrajit",
		ClientIP:  "192.168.1.1",
		VaultUUID: "8dbbbdc2-6d67-44b9-9d39-f03e34e72f7e",
		Success:   true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected PRI prefix in output")
	}
	if !strings.Contains(output, "vaultsafe") {
		t.Error("Expected app name 'vaultsafe' in output")
	}
	if !strings.Contains(output, "unlock") {
		t.Error("Expected message ID 'unlock' in output")
	}
	if !strings.Contains(output, "indrajit") {
		t.Error("Expected actor in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "unlocked the vault") {
		t.Error("Expected success message in output")
	}
}

func TestUnlockEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     UnlockEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful unlock",
			event: UnlockEvent{
				Actor:   "indrajit",
				Success: true,
			},
			wantMsg:   "unlocked the vault",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "unlock",
		},
		{
			name: "failed unlock",
			event: UnlockEvent{
				Actor:        "indrajit",
				Success:      false,
				ErrorMessage: "authentication failed",
			},
			wantMsg:   "failed to unlock",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "unlock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestCredentialEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   CredentialEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "create",
			event: CredentialEvent{
				Actor:     "indrajit",
				Mnemonic:  "g1",
				Name:      "Gmail",
				Operation: "create",
				Success:   true,
			},
			wantMsg: "created credential g1",
			wantSev: SeverityInfo,
		},
		{
			name: "fetch",
			event: CredentialEvent{
				Actor:     "indrajit",
				Mnemonic:  "g1",
				Operation: "fetch",
				Success:   true,
			},
			wantMsg: "fetched credential g1",
			wantSev: SeverityInfo,
		},
		{
			name: "failed fetch",
			event: CredentialEvent{
				Actor:        "indrajit",
				Mnemonic:     "nope",
				Operation:    "fetch",
				Success:      false,
				ErrorMessage: "mnemonic not found",
			},
			wantMsg: "tried to fetch credential nope",
			wantSev: SeverityWarning,
		},
		{
			name: "delete",
			event: CredentialEvent{
				Actor:     "indrajit",
				Mnemonic:  "g1",
				Operation: "delete",
				Success:   true,
			},
			wantMsg: "deleted credential g1",
			wantSev: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "credential" {
				t.Errorf("MessageID() = %v, want 'credential'", tt.event.MessageID())
			}
		})
	}
}

func TestInitEvent(t *testing.T) {
	event := InitEvent{
		Actor:     "indrajit",
		VaultName: "laptop",
		Success:   true,
	}

	if event.MessageID() != "init" {
		t.Errorf("MessageID() = %v, want 'init'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "initialized vault laptop") {
		t.Errorf("Message() = %q, want to contain 'initialized vault laptop'", event.Message())
	}
	if event.Severity() != SeverityInfo {
		t.Errorf("Severity() = %v, want SeverityInfo", event.Severity())
	}

	reinit := InitEvent{Actor: "indrajit", VaultName: "laptop", Reinit: true, Success: true}
	if !strings.Contains(reinit.Message(), "re-initialized") {
		t.Errorf("Message() = %q, want to contain 're-initialized'", reinit.Message())
	}
	if reinit.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want SeverityNotice for reinit", reinit.Severity())
	}
}

func TestRekeyEvent(t *testing.T) {
	event := RekeyEvent{
		Actor:    "indrajit",
		Resealed: 12,
		Success:  true,
	}

	if event.MessageID() != "rekey" {
		t.Errorf("MessageID() = %v, want 'rekey'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "changed the master password") {
		t.Errorf("Message() = %q, want to contain 'changed the master password'", event.Message())
	}
	if !strings.Contains(event.Message(), "12") {
		t.Errorf("Message() = %q, want to contain reseal count", event.Message())
	}
	if event.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want SeverityNotice", event.Severity())
	}

	failed := RekeyEvent{Actor: "indrajit", Success: false, ErrorMessage: "authentication failed"}
	if failed.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want SeverityWarning", failed.Severity())
	}
	if !strings.Contains(failed.Message(), "failed to change the master password") {
		t.Errorf("Message() = %q, want failure text", failed.Message())
	}
}

func TestVaultUpdateEvent(t *testing.T) {
	event := VaultUpdateEvent{
		Actor:   "indrajit",
		Changed: []string{"session_ttl", "name"},
		Success: true,
	}

	if event.MessageID() != "vault-update" {
		t.Errorf("MessageID() = %v, want 'vault-update'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "name, session_ttl") {
		t.Errorf("Message() = %q, want sorted attribute list", event.Message())
	}

	sd := event.StructuredData()
	if sd[SDIDSubject]["attributes"] != "name,session_ttl" {
		t.Errorf("StructuredData subject.attributes = %v, want 'name,session_ttl'", sd[SDIDSubject]["attributes"])
	}
}

func TestSessionEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   SessionEvent
		wantMsg string
	}{
		{
			name:    "issue",
			event:   SessionEvent{Actor: "indrajit", Operation: "issue", Success: true},
			wantMsg: "issued an unlock session",
		},
		{
			name:    "resume",
			event:   SessionEvent{Actor: "indrajit", Operation: "resume", Success: true},
			wantMsg: "resumed an unlock session",
		},
		{
			name:    "clear",
			event:   SessionEvent{Actor: "indrajit", Operation: "clear", Success: true},
			wantMsg: "cleared the unlock session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.MessageID() != "session" {
				t.Errorf("MessageID() = %v, want 'session'", tt.event.MessageID())
			}
			if tt.event.Facility() != FacilityAuth {
				t.Errorf("Facility() = %v, want FacilityAuth", tt.event.Facility())
			}
		})
	}
}

func TestTransferEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   TransferEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "encrypted export",
			event: TransferEvent{
				Actor:     "indrajit",
				Operation: "export",
				Count:     3,
				Encrypted: true,
				Success:   true,
			},
			wantMsg: "exported 3 credential(s) via an encrypted bundle",
			wantSev: SeverityInfo,
		},
		{
			name: "decrypted export",
			event: TransferEvent{
				Actor:     "indrajit",
				Operation: "export",
				Count:     3,
				Success:   true,
			},
			wantMsg: "via a decrypted bundle",
			wantSev: SeverityNotice,
		},
		{
			name: "import with skips",
			event: TransferEvent{
				Actor:     "indrajit",
				Operation: "import",
				Count:     2,
				Skipped:   1,
				Encrypted: true,
				Success:   true,
			},
			wantMsg: "1 skipped",
			wantSev: SeverityInfo,
		},
		{
			name: "failed import",
			event: TransferEvent{
				Actor:        "indrajit",
				Operation:    "import",
				Encrypted:    true,
				Success:      false,
				ErrorMessage: "authentication failed",
			},
			wantMsg: "failed to import",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "transfer" {
				t.Errorf("MessageID() = %v, want 'transfer'", tt.event.MessageID())
			}
		})
	}
}

func TestStructuredData(t *testing.T) {
	event := CredentialEvent{
		Actor:     "indrajit",
		ClientIP:  "10.0.0.1",
		Mnemonic:  "g1",
		Name:      "Gmail",
		Operation: "fetch",
		Success:   true,
	}

	sd := event.StructuredData()

	if sd[SDIDVault]["actor"] != "indrajit" {
		t.Errorf("StructuredData vault.actor = %v, want 'indrajit'", sd[SDIDVault]["actor"])
	}
	if sd[SDIDSubject]["mnemonic"] != "g1" {
		t.Errorf("StructuredData subject.mnemonic = %v, want 'g1'", sd[SDIDSubject]["mnemonic"])
	}
	if sd[SDIDSubject]["credential"] != "Gmail" {
		t.Errorf("StructuredData subject.credential = %v, want 'Gmail'", sd[SDIDSubject]["credential"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.1" {
		t.Errorf("StructuredData client.ip = %v, want '10.0.0.1'", sd[SDIDClient]["ip"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData action.result = %v, want 'success'", sd[SDIDAction]["result"])
	}
}

func TestStructuredDataOmitsEmptyClient(t *testing.T) {
	event := UnlockEvent{Actor: "indrajit", Success: true}

	sd := event.StructuredData()
	if _, ok := sd[SDIDClient]; ok {
		t.Error("Expected no client SDID for local events")
	}
}

func TestAuditToggle(t *testing.T) {
	// Save original state
	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
	}()

	// Test with audit disabled
	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	// Test with audit enabled
	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestPastTense(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{"create", "created"},
		{"fetch", "fetched"},
		{"update", "updated"},
		{"delete", "deleted"},
		{"export", "exported"},
		{"import", "imported"},
	}

	for _, tt := range tests {
		if got := pastTense(tt.op); got != tt.want {
			t.Errorf("pastTense(%q) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

package auditd

import (
	"fmt"
	"strings"

	"github.com/elastic/go-libaudit/v2/auparse"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
)

// actions follows the action vocabulary used by auditd event normalization.
var actions = map[auparse.AuditMessageType]string{
	auparse.AUDIT_USER_LOGIN:  domain.ActionLoggedIn,
	auparse.AUDIT_USER_LOGOUT: "logged-out",
	auparse.AUDIT_USER_AUTH:   "authenticated",
	auparse.AUDIT_USER_START:  "started-session",
	auparse.AUDIT_USER_END:    "ended-session",
	auparse.AUDIT_CRED_ACQ:    "acquired-credentials",
	auparse.AUDIT_CRED_DISP:   "disposed-credentials",
}

// Tokenizer turns raw auditd log lines into audit events. Each line carries
// one record, so a parsed line yields exactly one event.
type Tokenizer struct{}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

func (t *Tokenizer) Events(line string) ([]domain.AuditEvent, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	msg, err := auparse.ParseLogLine(line)
	if err != nil {
		return nil, fmt.Errorf("parse audit line: %w", err)
	}
	data, err := msg.Data()
	if err != nil {
		return nil, fmt.Errorf("decode audit fields: %w", err)
	}

	recordType := msg.RecordType.String()
	action, ok := actions[msg.RecordType]
	if !ok {
		action = strings.ToLower(recordType)
	}

	return []domain.AuditEvent{{
		Action: action,
		Records: []domain.AuditRecord{{
			Type:      recordType,
			Result:    result(data),
			SubjectID: subject(data),
			Address:   address(data),
		}},
	}}, nil
}

func result(data map[string]string) string {
	v := data["result"]
	if v == "" {
		v = data["res"]
	}
	switch strings.ToLower(v) {
	case "success", "yes", "1":
		return domain.ResultSuccess
	case "":
		return ""
	default:
		return "fail"
	}
}

func subject(data map[string]string) string {
	for _, key := range []string{"id", "acct", "auid"} {
		if v := unset(data[key]); v != "" {
			return v
		}
	}
	return ""
}

func address(data map[string]string) string {
	return unset(data["addr"])
}

// unset maps auditd's "?" placeholder to an empty value.
func unset(v string) string {
	v = strings.Trim(v, `"`)
	if v == "?" {
		return ""
	}
	return v
}

package domain

const (
	ActionLoggedIn = "logged-in"
	ResultSuccess  = "success"
)

// AuditRecord is one sub-record of a tokenized audit event.
type AuditRecord struct {
	Type      string
	Result    string
	SubjectID string
	Address   string
}

// AuditEvent groups the records the tokenizer correlated under one action.
type AuditEvent struct {
	Action  string
	Records []AuditRecord
}

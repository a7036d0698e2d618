package usecase

import (
	"fmt"

	"github.com/atvirokodosprendimai/loginwatch/internal/core/domain"
	"github.com/atvirokodosprendimai/loginwatch/internal/core/ports"
)

type LoginExtractor struct {
	tokenizer ports.AuditTokenizer
}

func NewLoginExtractor(tokenizer ports.AuditTokenizer) *LoginExtractor {
	return &LoginExtractor{tokenizer: tokenizer}
}

// Extract returns the first successful login with a non-empty address found
// in line. Events are scanned in order and records within an event in order;
// the scan stops at the first match.
func (e *LoginExtractor) Extract(line string) (domain.LoginFact, bool, error) {
	events, err := e.tokenizer.Events(line)
	if err != nil {
		return domain.LoginFact{}, false, fmt.Errorf("tokenize line: %w", err)
	}

	for _, event := range events {
		if event.Action != domain.ActionLoggedIn {
			continue
		}
		for _, record := range event.Records {
			if record.Result != domain.ResultSuccess {
				continue
			}
			if record.Address == "" {
				continue
			}
			return domain.LoginFact{User: record.SubjectID, Address: record.Address}, true, nil
		}
	}
	return domain.LoginFact{}, false, nil
}

package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/QCNachos/TindAi/internal/domain/enums"
)

const (
	MinNameLength      = 2
	MaxNameLength      = 30
	MaxBioLength       = 500
	MaxMessageLength   = 2000
	MaxTwitterLength   = 50
	MaxEndReasonLength = 500
	DefaultEndReason   = "Agent initiated breakup via API"
)

var ErrInvalid = errors.New("invalid input")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidationError carries a reason that is safe to return to the caller.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func Invalid(format string, args ...any) error {
	return ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", Invalid("name is required")
	}
	n := utf8.RuneCountInString(name)
	if n < MinNameLength {
		return "", Invalid("name must be at least %d characters", MinNameLength)
	}
	if n > MaxNameLength {
		return "", Invalid("name must be at most %d characters", MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return "", Invalid("name can only contain letters, numbers, underscores, and hyphens")
	}
	return name, nil
}

func ValidateBio(bio string) (string, error) {
	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return "", Invalid("bio must be at most %d characters", MaxBioLength)
	}
	return bio, nil
}

// FilterInterests keeps catalog interests in input order, dropping unknown values and duplicates.
func FilterInterests(interests []string) []string {
	out := make([]string, 0, len(interests))
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		if !enums.IsInterest(interest) {
			continue
		}
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		out = append(out, interest)
	}
	return out
}

// NormalizeTwitterHandle strips a leading @ and enforces the length limit.
func NormalizeTwitterHandle(handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if utf8.RuneCountInString(handle) > MaxTwitterLength {
		return "", Invalid("twitter_handle must be at most %d characters", MaxTwitterLength)
	}
	return handle, nil
}

func ValidateMessageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", Invalid("content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return "", Invalid("content must be at most %d characters", MaxMessageLength)
	}
	return content, nil
}

func NormalizeEndReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return DefaultEndReason, nil
	}
	if utf8.RuneCountInString(reason) > MaxEndReasonLength {
		return "", Invalid("reason must be at most %d characters", MaxEndReasonLength)
	}
	return reason, nil
}

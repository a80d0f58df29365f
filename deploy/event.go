package deploy

import (
	"encoding/json"
	"strings"

	ferrors "github.com/input-output-hk/catalyst-forge-libs/sitedeploy/errors"
)

// PushEvent represents the relevant fields from a GitHub push webhook.
type PushEvent struct {
	Ref        string `json:"ref"`
	After      string `json:"after"`
	Repository struct {
		Name     string `json:"name"`
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// ParsePushEvent decodes the JSON document carried in an SNS message.
func ParsePushEvent(message string) (*PushEvent, error) {
	var ev PushEvent
	if err := json.Unmarshal([]byte(message), &ev); err != nil {
		return nil, ferrors.Newf(ferrors.CodeInvalidInput, "parse event", "invalid push payload: %w", err)
	}
	if ev.Ref == "" {
		return nil, ferrors.New(ferrors.CodeInvalidInput, "parse event", "push payload has no ref")
	}
	return &ev, nil
}

// Branch returns the branch name of a refs/heads ref, or "" for tags and other refs.
func (e *PushEvent) Branch() string {
	branch, ok := strings.CutPrefix(e.Ref, "refs/heads/")
	if !ok {
		return ""
	}
	return branch
}

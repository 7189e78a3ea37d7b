package models

import (
	"fmt"
	"strings"
)

// TaskSourceKind discriminates where a task widget draws its tasks from.
type TaskSourceKind string

const (
	TaskSourceInbox   TaskSourceKind = "inbox"
	TaskSourceProject TaskSourceKind = "project"
	TaskSourceTag     TaskSourceKind = "tag"
)

// TaskSource is the parsed form of a widget's free-text source line: the
// inbox, a named project, or a named tag. Name is empty for the inbox.
type TaskSource struct {
	Kind TaskSourceKind `json:"kind"`
	Name string         `json:"name,omitempty"`
}

// ParseTaskSource parses raw source text into a TaskSource. Accepted forms:
//
//	inbox
//	project: <name>
//	tag: <name>
//
// Matching on the keyword is case-insensitive; the name keeps its original
// casing. Parsing is pure and carries no rendering concerns.
func ParseTaskSource(raw string) (TaskSource, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TaskSource{}, fmt.Errorf("empty task source")
	}

	if strings.EqualFold(trimmed, "inbox") {
		return TaskSource{Kind: TaskSourceInbox}, nil
	}

	if keyword, name, found := strings.Cut(trimmed, ":"); found {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(strings.TrimSpace(keyword), "project"):
			if name == "" {
				return TaskSource{}, fmt.Errorf("project source requires a name")
			}
			return TaskSource{Kind: TaskSourceProject, Name: name}, nil
		case strings.EqualFold(strings.TrimSpace(keyword), "tag"):
			if name == "" {
				return TaskSource{}, fmt.Errorf("tag source requires a name")
			}
			return TaskSource{Kind: TaskSourceTag, Name: name}, nil
		}
	}

	return TaskSource{}, fmt.Errorf("unrecognized task source %q: expected \"inbox\", \"project: <name>\", or \"tag: <name>\"", raw)
}

// String renders the source back to its canonical text form.
func (s TaskSource) String() string {
	switch s.Kind {
	case TaskSourceInbox:
		return "inbox"
	case TaskSourceProject:
		return "project: " + s.Name
	case TaskSourceTag:
		return "tag: " + s.Name
	}
	return ""
}

package domain

import (
	"context"
	"strings"
	"unicode/utf8"
)

// MaxHowToLength bounds the how-to description.
const MaxHowToLength = 250

// Command represents a stored how-to for a command line on a platform
type Command struct {
	ID          int64  `json:"id"`
	HowTo       string `json:"howTo"`       // what the command does, e.g. "List files"
	CommandLine string `json:"commandLine"` // the command itself, e.g. "ls -la"
	Platform    string `json:"platform"`    // target platform, e.g. "linux"
}

// Validate checks that all text fields are present and within bounds.
func (c *Command) Validate() error {
	if strings.TrimSpace(c.HowTo) == "" {
		return &ValidationError{Field: "howTo", Message: "is required"}
	}
	if utf8.RuneCountInString(c.HowTo) > MaxHowToLength {
		return &ValidationError{Field: "howTo", Message: "must be at most 250 characters"}
	}
	if strings.TrimSpace(c.CommandLine) == "" {
		return &ValidationError{Field: "commandLine", Message: "is required"}
	}
	if strings.TrimSpace(c.Platform) == "" {
		return &ValidationError{Field: "platform", Message: "is required"}
	}
	return nil
}

// Clone returns a copy that shares no state with c.
func (c *Command) Clone() *Command {
	cp := *c
	return &cp
}

// CommandFilter narrows a list query
type CommandFilter struct {
	Platform string // compared by PlatformKey; empty matches all
}

// PlatformKey is the normalized form platforms are matched on: trimmed and
// lower-cased with full Unicode case mapping.
func PlatformKey(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// CommandRepository interface for command data access
type CommandRepository interface {
	// ListCommands lists commands ordered by id
	ListCommands(ctx context.Context, filter CommandFilter) ([]*Command, error)

	// GetCommand gets a command by ID
	GetCommand(ctx context.Context, id int64) (*Command, error)

	// CreateCommand stores a new command and assigns its ID
	CreateCommand(ctx context.Context, cmd *Command) error

	// UpdateCommand replaces the text fields of an existing command
	UpdateCommand(ctx context.Context, cmd *Command) error

	// DeleteCommand deletes a command and returns what was removed
	DeleteCommand(ctx context.Context, id int64) (*Command, error)

	// CountCommands returns the number of stored commands
	CountCommands(ctx context.Context) (int, error)
}

// CommandUseCase defines the business logic for commands
type CommandUseCase interface {
	// ListCommands lists commands, optionally restricted to a platform
	ListCommands(ctx context.Context, platform string) ([]*Command, error)

	// GetCommand retrieves a command by ID
	GetCommand(ctx context.Context, id int64) (*Command, error)

	// CreateCommand validates and stores a new command
	CreateCommand(ctx context.Context, cmd Command) (*Command, error)

	// UpdateCommand replaces the command stored under id
	UpdateCommand(ctx context.Context, id int64, cmd Command) error

	// DeleteCommand deletes a command
	DeleteCommand(ctx context.Context, id int64) (*Command, error)
}

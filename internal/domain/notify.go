package domain

import "context"

// CommandAction names a change applied to a command
type CommandAction string

const (
	CommandCreated CommandAction = "created"
	CommandUpdated CommandAction = "updated"
	CommandDeleted CommandAction = "deleted"
)

// CommandEvent describes one applied change
type CommandEvent struct {
	Action  CommandAction
	Command Command
}

// CommandNotifier publishes command changes to an external channel
type CommandNotifier interface {
	NotifyCommandChanged(ctx context.Context, event CommandEvent) error
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) NotifyCommandChanged(context.Context, CommandEvent) error { return nil }

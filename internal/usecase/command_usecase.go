package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/wyg1997/CommandAPI/internal/domain"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

// notifyTimeout bounds how long a change notification may hold up a request.
const notifyTimeout = 5 * time.Second

// CommandUseCaseImpl implements CommandUseCase
type CommandUseCaseImpl struct {
	commandRepo domain.CommandRepository
	notifier    domain.CommandNotifier
	logger      logger.Logger
}

// NewCommandUseCase creates a new command use case. A nil notifier disables notifications.
func NewCommandUseCase(
	commandRepo domain.CommandRepository,
	notifier domain.CommandNotifier,
) domain.CommandUseCase {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &CommandUseCaseImpl{
		commandRepo: commandRepo,
		notifier:    notifier,
		logger:      logger.GetLogger(),
	}
}

// ListCommands lists commands, optionally restricted to a platform
func (u *CommandUseCaseImpl) ListCommands(ctx context.Context, platform string) ([]*domain.Command, error) {
	return u.commandRepo.ListCommands(ctx, domain.CommandFilter{Platform: platform})
}

// GetCommand retrieves a command by ID
func (u *CommandUseCaseImpl) GetCommand(ctx context.Context, id int64) (*domain.Command, error) {
	return u.commandRepo.GetCommand(ctx, id)
}

// CreateCommand validates and stores a new command
func (u *CommandUseCaseImpl) CreateCommand(ctx context.Context, cmd domain.Command) (*domain.Command, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// the store owns id assignment
	cmd.ID = 0
	if err := u.commandRepo.CreateCommand(ctx, &cmd); err != nil {
		return nil, fmt.Errorf("failed to create command: %w", err)
	}

	u.logger.Info("Created command: ID=%d, Platform=%s, HowTo=%s", cmd.ID, cmd.Platform, cmd.HowTo)
	u.notify(ctx, domain.CommandCreated, cmd)
	return &cmd, nil
}

// UpdateCommand replaces the command stored under id
func (u *CommandUseCaseImpl) UpdateCommand(ctx context.Context, id int64, cmd domain.Command) error {
	if id != cmd.ID {
		return fmt.Errorf("update command %d (body id %d): %w", id, cmd.ID, domain.ErrIDMismatch)
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := u.commandRepo.UpdateCommand(ctx, &cmd); err != nil {
		return err
	}

	u.logger.Info("Updated command: ID=%d", cmd.ID)
	u.notify(ctx, domain.CommandUpdated, cmd)
	return nil
}

// DeleteCommand deletes a command
func (u *CommandUseCaseImpl) DeleteCommand(ctx context.Context, id int64) (*domain.Command, error) {
	cmd, err := u.commandRepo.DeleteCommand(ctx, id)
	if err != nil {
		return nil, err
	}

	u.logger.Info("Deleted command: ID=%d", id)
	u.notify(ctx, domain.CommandDeleted, *cmd)
	return cmd, nil
}

func (u *CommandUseCaseImpl) notify(ctx context.Context, action domain.CommandAction, cmd domain.Command) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := u.notifier.NotifyCommandChanged(ctx, domain.CommandEvent{Action: action, Command: cmd}); err != nil {
		u.logger.Warn("Failed to notify command change: action=%s, id=%d, error=%v", action, cmd.ID, err)
	}
}

package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wyg1997/CommandAPI/internal/domain"
)

// memoryCommandRepository implements CommandRepository in process memory
type memoryCommandRepository struct {
	mu       sync.RWMutex
	commands map[int64]*domain.Command
	lastID   int64
}

// NewMemoryCommandRepository creates an empty in-memory command repository
func NewMemoryCommandRepository() domain.CommandRepository {
	return &memoryCommandRepository{
		commands: make(map[int64]*domain.Command),
	}
}

// ListCommands lists commands ordered by id
func (r *memoryCommandRepository) ListCommands(ctx context.Context, filter domain.CommandFilter) ([]*domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := domain.PlatformKey(filter.Platform)
	result := make([]*domain.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		if key != "" && domain.PlatformKey(cmd.Platform) != key {
			continue
		}
		result = append(result, cmd.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetCommand gets a command by ID
func (r *memoryCommandRepository) GetCommand(ctx context.Context, id int64) (*domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, exists := r.commands[id]
	if !exists {
		return nil, fmt.Errorf("get command %d: %w", id, domain.ErrCommandNotFound)
	}
	return cmd.Clone(), nil
}

// CreateCommand stores a new command and assigns its ID
func (r *memoryCommandRepository) CreateCommand(ctx context.Context, cmd *domain.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	cmd.ID = r.lastID
	r.commands[cmd.ID] = cmd.Clone()
	return nil
}

// UpdateCommand replaces the text fields of an existing command
func (r *memoryCommandRepository) UpdateCommand(ctx context.Context, cmd *domain.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[cmd.ID]; !exists {
		return fmt.Errorf("update command %d: %w", cmd.ID, domain.ErrCommandNotFound)
	}
	r.commands[cmd.ID] = cmd.Clone()
	return nil
}

// DeleteCommand deletes a command and returns what was removed
func (r *memoryCommandRepository) DeleteCommand(ctx context.Context, id int64) (*domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, exists := r.commands[id]
	if !exists {
		return nil, fmt.Errorf("delete command %d: %w", id, domain.ErrCommandNotFound)
	}
	delete(r.commands, id)
	return cmd, nil
}

// CountCommands returns the number of stored commands
func (r *memoryCommandRepository) CountCommands(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands), nil
}

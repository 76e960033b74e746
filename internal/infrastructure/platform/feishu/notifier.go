package feishu

import (
	"context"
	"fmt"

	"github.com/wyg1997/CommandAPI/internal/domain"
)

// TextSender delivers a text message to a Feishu receiver.
type TextSender interface {
	SendText(ctx context.Context, receiveIDType, receiveID, content string) error
}

// Notifier posts command changes to a Feishu chat
type Notifier struct {
	sender TextSender
	chatID string
}

// NewNotifier creates a notifier posting to chatID through sender
func NewNotifier(sender TextSender, chatID string) *Notifier {
	return &Notifier{sender: sender, chatID: chatID}
}

// NotifyCommandChanged implements domain.CommandNotifier
func (n *Notifier) NotifyCommandChanged(ctx context.Context, event domain.CommandEvent) error {
	return n.sender.SendText(ctx, ReceiveIDTypeChatID, n.chatID, FormatEvent(event))
}

// FormatEvent renders an event as one chat line, e.g. "[created] #3 linux: ls -la (list files)".
func FormatEvent(event domain.CommandEvent) string {
	c := event.Command
	return fmt.Sprintf("[%s] #%d %s: %s (%s)", event.Action, c.ID, c.Platform, c.CommandLine, c.HowTo)
}

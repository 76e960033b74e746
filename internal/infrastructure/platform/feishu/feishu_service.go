package feishu

import (
	"context"
	"encoding/json"
	"fmt"

	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"

	"github.com/wyg1997/CommandAPI/config"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

// ReceiveIDTypeChatID addresses a group chat in the im/v1 message API
const ReceiveIDTypeChatID = "chat_id"

// FeishuService handles Feishu API integration
type FeishuService struct {
	client *lark.Client
	log    logger.Logger
}

// NewFeishuService creates a new Feishu service
func NewFeishuService(cfg *config.FeishuConfig) *FeishuService {
	return &FeishuService{
		client: lark.NewClient(cfg.AppID, cfg.AppSecret),
		log:    logger.GetLogger(),
	}
}

// SendText sends a plain text message to a user or chat
func (s *FeishuService) SendText(ctx context.Context, receiveIDType, receiveID, content string) error {
	s.log.Debug("Will send message: %s to %s=%s", content, receiveIDType, receiveID)

	textContent, err := textMessageContent(content)
	if err != nil {
		return err
	}

	req := larkim.NewCreateMessageReqBuilder().
		ReceiveIdType(receiveIDType).
		Body(larkim.NewCreateMessageReqBodyBuilder().
			ReceiveId(receiveID).
			Content(textContent).
			MsgType("text").
			Build()).
		Build()

	resp, err := s.client.Im.Message.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if !resp.Success() {
		return fmt.Errorf("failed to send message: code=%d, msg=%s", resp.Code, resp.Msg)
	}

	s.log.Debug("Successfully sent message to %s=%s", receiveIDType, receiveID)
	return nil
}

// textMessageContent encodes text as the JSON content of a "text" message
func textMessageContent(text string) (string, error) {
	data, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal message content: %w", err)
	}
	return string(data), nil
}

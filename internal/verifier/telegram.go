package verifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// memberStatuses are the getChatMember statuses that count as belonging
// to the channel.
var memberStatuses = map[string]struct{}{
	"member":        {},
	"administrator": {},
	"creator":       {},
}

// TelegramClient implements MembershipClient over the Bot API. The
// context deadline is enforced by the caller; Bot API calls themselves
// are bounded by the HTTP client timeout.
type TelegramClient struct {
	api     *tgbotapi.BotAPI
	channel string
}

func NewTelegramClient(api *tgbotapi.BotAPI, channel string) *TelegramClient {
	return &TelegramClient{api: api, channel: channel}
}

func (c *TelegramClient) ResolveUsername(_ context.Context, username string) (int64, error) {
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}

	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: username},
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return 0, ErrUnresolved
		}
		return 0, err
	}
	return chat.ID, nil
}

func (c *TelegramClient) IsMember(_ context.Context, userID int64) (bool, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: c.channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return false, err
	}

	_, ok := memberStatuses[member.Status]
	return ok, nil
}

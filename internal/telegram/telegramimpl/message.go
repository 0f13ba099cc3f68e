package telegramimpl

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// GetUpdatesChan wraps the bot's long-polling update channel.
func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.TgBot.StopReceivingUpdates()
}

// SendMessage sends a text message and returns the new message ID.
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message", "chatID", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sentMsg.MessageID, nil
}

// EditMessageText replaces the text of a previously sent message, used for
// in-place progress updates while a batch runs.
func (tg *TelegramImpl) EditMessageText(chatID int64, messageID int, newText string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, newText)
	if _, err := tg.TgBot.Send(edit); err != nil {
		tg.Logger.Error("Error editing message", "chatID", chatID, "messageID", messageID, "error", err)
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// SendChatAction sets the "typing" / "upload_document" indicator. Failures
// are logged and swallowed; the indicator is cosmetic.
func (tg *TelegramImpl) SendChatAction(chatID int64, action string) {
	if _, err := tg.TgBot.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		tg.Logger.Warn("Error sending chat action", "chatID", chatID, "action", action, "error", err)
	}
}

// SendDocument uploads a file from memory.
func (tg *TelegramImpl) SendDocument(chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption

	if _, err := tg.TgBot.Send(doc); err != nil {
		tg.Logger.Error("Error sending document", "chatID", chatID, "filename", filename, "error", err)
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

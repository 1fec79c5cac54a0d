package handler

import (
	"avtoclub/internal/service"

	tele "gopkg.in/telebot.v3"
)

// teleSender adapts the telebot API to the service.Sender surface
type teleSender struct {
	bot *tele.Bot
}

// NewSender wraps the bot as a service.Sender for broadcasts
func NewSender(bot *tele.Bot) service.Sender {
	return &teleSender{bot: bot}
}

func (s *teleSender) SendText(chatID int64, text string) error {
	_, err := s.bot.Send(tele.ChatID(chatID), text)
	return err
}

func (s *teleSender) SendPhoto(chatID int64, fileID, caption string) error {
	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	_, err := s.bot.Send(tele.ChatID(chatID), photo)
	return err
}

package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deliky-backend/lib/cities"
	"deliky-backend/lib/scrapers/tabletki"
	"deliky-backend/services/tracker"
)

const (
	callbackSelectDrug = "select_drug"
	callbackSelectCity = "select_city"
	callbackRemove     = "remove_tracking"
	callbackInterval   = "interval"
)

const maxDrugButtons = 10

func (s *Service) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatId := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			s.handleStart(ctx, chatId)
		case "list":
			s.handleList(ctx, chatId)
		case "check":
			s.handleCheckNow(ctx, chatId)
		case "settings":
			s.handleSettings(ctx, chatId)
		}
		return
	}

	s.handleText(ctx, chatId, strings.TrimSpace(msg.Text))
}

func (s *Service) handleStart(ctx context.Context, chatId int64) {
	err := s.store.RegisterChat(chatId)
	if err != nil {
		slog.WarnContext(ctx, "failed to persist registered chat", "chat_id", chatId, "err", err)
	}

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonAddDrug)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonList),
			tgbotapi.NewKeyboardButton(buttonCheckNow),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(buttonSettings)),
	)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatId, welcomeText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboard
	s.send(ctx, msg)
}

func (s *Service) handleList(ctx context.Context, chatId int64) {
	list := s.store.List(chatId)
	if len(list) == 0 {
		s.reply(ctx, chatId, textNothingTracked)
		return
	}

	var text strings.Builder
	text.WriteString("*Відстежувані препарати:*\n\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, pair := range list {
		fmt.Fprintf(&text, "%d. 💊 *%s* у місті 🏙️ *%s*\n", i+1, pair.Drug, pair.City)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("❌ %s (%s)", pair.Drug, pair.City),
				fmt.Sprintf("%s:%d", callbackRemove, i),
			),
		))
	}

	msg := tgbotapi.NewMessage(chatId, text.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	s.send(ctx, msg)
}

func (s *Service) handleCheckNow(ctx context.Context, chatId int64) {
	for _, text := range s.checkNow(ctx, chatId) {
		s.reply(ctx, chatId, text)
	}
}

// checkNow runs every tracked pair of the chat and returns the
// replies to deliver. each result lands in the history store the
// same way a scheduler cycle would record it.
func (s *Service) checkNow(ctx context.Context, chatId int64) []string {
	list := s.store.List(chatId)
	if len(list) == 0 {
		return []string{textNothingTracked}
	}

	replies := []string{textCheckingNow}
	found := false
	for _, pair := range list {
		listings := s.checker.Check(ctx, pair.Drug, pair.City)
		tracker.RecordCheck(ctx, s.history, chatId, pair.Drug, pair.City, listings)
		if len(listings) == 0 {
			continue
		}
		found = true
		replies = append(replies, tracker.FormatAvailable(pair.Drug, pair.City, listings))
	}

	if !found {
		replies = append(replies, textNothingAvailable)
	}
	return replies
}

func (s *Service) handleSettings(ctx context.Context, chatId int64) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("3 години", callbackInterval+":3")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("6 годин", callbackInterval+":6")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("12 годин", callbackInterval+":12")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("24 години", callbackInterval+":24")),
	)

	msg := tgbotapi.NewMessage(chatId, fmt.Sprintf(textIntervalPrompt, s.store.IntervalHours()))
	msg.ReplyMarkup = keyboard
	s.send(ctx, msg)
}

func (s *Service) handleText(ctx context.Context, chatId int64, text string) {
	switch text {
	case buttonAddDrug:
		s.sessions.set(chatId, session{waitingFor: awaitingDrugQuery})
		s.reply(ctx, chatId, textEnterDrugName)
		return
	case buttonList:
		s.handleList(ctx, chatId)
		return
	case buttonCheckNow:
		s.handleCheckNow(ctx, chatId)
		return
	case buttonSettings:
		s.handleSettings(ctx, chatId)
		return
	}

	switch s.sessions.get(chatId).waitingFor {
	case awaitingCityQuery:
		s.showCityChoices(ctx, chatId, 0, text)
	default:
		// free text out of any flow is treated as a drug search
		s.searchAndShowDrugs(ctx, chatId, text)
	}
}

func (s *Service) searchAndShowDrugs(ctx context.Context, chatId int64, query string) {
	if query == "" {
		s.reply(ctx, chatId, textEnterDrugName)
		return
	}

	s.reply(ctx, chatId, fmt.Sprintf(textSearchingDrugs, query))

	// city-agnostic search: the user narrows the city afterwards
	listings := tabletki.DedupeByName(s.checker.Check(ctx, query, ""))
	if len(listings) == 0 {
		s.reply(ctx, chatId, textNoDrugsFound)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, listing := range listings {
		if i >= maxDrugButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				listing.Name,
				callbackSelectDrug+":"+listing.Name,
			),
		))
	}

	msg := tgbotapi.NewMessage(chatId, textPickDrug)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	s.send(ctx, msg)
}

// showCityChoices renders the city picker. when messageId is non-zero
// the existing message is edited in place, otherwise a new one is
// sent. empty fragment falls back to the head of the default list; a
// fragment with no containment matches falls back to fuzzy
// suggestions before giving up.
func (s *Service) showCityChoices(ctx context.Context, chatId int64, messageId int, fragment string) {
	var choices []string
	if fragment == "" {
		choices = cities.Ukraine[:10]
	} else {
		choices = cities.Match(fragment, cities.Ukraine)
		if len(choices) == 0 {
			choices = cities.Suggest(fragment, cities.Ukraine)
		}
	}

	if len(choices) == 0 {
		s.reply(ctx, chatId, textNoCitiesFound)
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, city := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(city, callbackSelectCity+":"+city),
		))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if messageId != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatId, messageId, textPickCity, markup)
		s.send(ctx, edit)
		return
	}
	msg := tgbotapi.NewMessage(chatId, textPickCity)
	msg.ReplyMarkup = markup
	s.send(ctx, msg)
}

func (s *Service) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	_, err := s.api.Request(tgbotapi.NewCallback(query.ID, ""))
	if err != nil {
		slog.WarnContext(ctx, "failed to answer callback query", "err", err)
	}

	if query.Message == nil {
		return
	}
	chatId := query.Message.Chat.ID
	messageId := query.Message.MessageID

	action, value, ok := strings.Cut(query.Data, ":")
	if !ok {
		return
	}

	switch action {
	case callbackSelectDrug:
		s.sessions.set(chatId, session{
			waitingFor:   awaitingCityQuery,
			selectedDrug: value,
		})
		s.showCityChoices(ctx, chatId, messageId, "")

	case callbackSelectCity:
		drug := s.sessions.get(chatId).selectedDrug
		if drug == "" {
			s.edit(ctx, chatId, messageId, textDrugLost)
			return
		}

		status, err := s.store.Add(chatId, drug, value)
		if err != nil {
			slog.WarnContext(ctx, "failed to add tracking", "chat_id", chatId, "err", err)
			s.edit(ctx, chatId, messageId, textGenericError)
			return
		}
		if status == tracker.AlreadyTracked {
			s.edit(ctx, chatId, messageId, fmt.Sprintf(textAlreadyTracked, drug, value))
		} else {
			s.edit(ctx, chatId, messageId, fmt.Sprintf(textTrackingConfirmed, drug, value))
		}
		s.sessions.clear(chatId)

	case callbackRemove:
		index, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		removed, status, err := s.store.Remove(chatId, index)
		if err != nil {
			slog.WarnContext(ctx, "failed to remove tracking", "chat_id", chatId, "err", err)
			s.edit(ctx, chatId, messageId, textGenericError)
			return
		}
		if status == tracker.NotFound {
			s.edit(ctx, chatId, messageId, textRemoveNotFound)
			return
		}
		s.edit(ctx, chatId, messageId, fmt.Sprintf(textTrackingRemoved, removed.Drug, removed.City))

	case callbackInterval:
		hours, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		err = s.store.SetInterval(hours)
		if err != nil {
			slog.WarnContext(ctx, "failed to set interval", "err", err)
			s.edit(ctx, chatId, messageId, textGenericError)
			return
		}
		s.edit(ctx, chatId, messageId, fmt.Sprintf(textIntervalChanged, hours))
	}
}

func (s *Service) edit(ctx context.Context, chatId int64, messageId int, text string) {
	edit := tgbotapi.NewEditMessageText(chatId, messageId, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	s.send(ctx, edit)
}

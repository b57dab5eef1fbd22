package shop

import (
	"strconv"

	"github.com/avigsen/estatebot/core/logger"

	tele "gopkg.in/telebot.v4"
)

// The render layer keeps a single bot message per chat as the active screen.
// Text over text is edited in place; every transition involving a photo sends
// a new message and best-effort deletes the previous one, because Telegram
// cannot edit a photo message into a text message or vice versa.

// screenAPI is the slice of the bot API the render layer needs. *tele.Bot
// satisfies it; tests install a recording fake through the context.
type screenAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
}

const screenAPIKey = "shop_screen_api"

func apiOf(c tele.Context) screenAPI {
	if api, ok := c.Get(screenAPIKey).(screenAPI); ok && api != nil {
		return api
	}
	return c.Bot()
}

// RenderText shows a text screen, editing the current on-screen message when
// possible.
func RenderText(c tele.Context, sess *Session, text string, markup *tele.ReplyMarkup) error {
	sess.ChatID = c.Chat().ID

	api := apiOf(c)
	if sess.LastKind == KindText && sess.LastMsg != nil {
		if _, err := api.Edit(sess.LastMsg, text, markup, tele.ModeHTML); err == nil {
			sess.LastKind = KindText
			return nil
		}
		// Edit can fail when the tracked message was deleted externally or
		// the content is identical. Fall through to a fresh send.
	}
	msg, err := api.Send(tele.ChatID(sess.ChatID), text, markup, tele.ModeHTML)
	if err != nil {
		return err
	}
	replaceScreen(c, sess, msg, KindText)
	return nil
}

// RenderTextFresh shows a text screen as a new message even when the current
// screen is editable. Used for entry points like /start, where the user's own
// message already sits below the old screen.
func RenderTextFresh(c tele.Context, sess *Session, text string, markup *tele.ReplyMarkup) error {
	sess.ChatID = c.Chat().ID

	msg, err := apiOf(c).Send(tele.ChatID(sess.ChatID), text, markup, tele.ModeHTML)
	if err != nil {
		return err
	}
	replaceScreen(c, sess, msg, KindText)
	return nil
}

// RenderPhoto shows a photo screen. Photos are never edited in place.
func RenderPhoto(c tele.Context, sess *Session, fileID, caption string, markup *tele.ReplyMarkup) error {
	sess.ChatID = c.Chat().ID

	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	msg, err := apiOf(c).Send(tele.ChatID(sess.ChatID), photo, markup, tele.ModeHTML)
	if err != nil {
		return err
	}
	replaceScreen(c, sess, msg, KindPhoto)
	return nil
}

// DeleteInbound best-effort removes the user's own message (raw text input
// during prompt flows) to keep the chat showing only the active screen.
func DeleteInbound(c tele.Context) {
	m := c.Message()
	if m == nil {
		return
	}
	if err := apiOf(c).Delete(m); err != nil {
		logger.TG.Debug("render.delete_inbound_failed", "error", err.Error())
	}
}

// replaceScreen records the new screen message and best-effort deletes the
// previous one. Delete failures are logged and swallowed: a stale message in
// the chat is cosmetic, a failed render is not.
func replaceScreen(c tele.Context, sess *Session, msg *tele.Message, kind MessageKind) {
	old := sess.LastMsg
	sess.LastMsg = &tele.StoredMessage{
		MessageID: strconv.Itoa(msg.ID),
		ChatID:    msg.Chat.ID,
	}
	sess.LastKind = kind

	if old != nil {
		if err := apiOf(c).Delete(old); err != nil {
			logger.TG.Debug("render.delete_old_failed", "error", err.Error())
		}
	}
}

package handlers

import (
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"
)

const (
	TextUnlocked         = "Welcome! Here are your options:"
	TextRecheckBlocked   = "Please subscribe to the channel first and then click 'Check Subscription' again."
	TextNotAuthorized    = "You are not authorized to use this command."
	TextBroadcastDone    = "Message broadcasted to all users."
	TextGenericBlocked   = "Please subscribe to our channel to use the bot."
	TextFeaturePending   = "AI translation feature is not implemented in this example."
	TextSubscribePrompt  = "Please subscribe to our channel to use the bot."
	TextStatsUnavailable = "Statistics are unavailable right now. Please try again later."

	TextHelp = "This bot is an AI-based translator using ChatGPT-4's API. " +
		"To use the bot, please subscribe to our channel and then use the provided buttons. " +
		"For any issues, please contact the administrator."
)

// Greeting renders the /start reply for user.
func Greeting(user *telebot.User) string {
	return fmt.Sprintf("Hello %s! %s", FullName(user), TextSubscribePrompt)
}

// FullName joins the first and last name of user.
func FullName(user *telebot.User) string {
	if user == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
}

// Package testutil provides fakes shared by bot handler tests.
package testutil

import (
	"sync"

	telebot "gopkg.in/telebot.v3"
)

// Call captures one outgoing Send or Edit.
type Call struct {
	What interface{}
	Opts []interface{}
	// Reply is set when the call quoted the triggering message.
	Reply bool
}

// Text returns the call payload when it is a string.
func (c Call) Text() string {
	s, _ := c.What.(string)
	return s
}

// Markup returns the reply markup passed with the call, if any.
func (c Call) Markup() *telebot.ReplyMarkup {
	for _, opt := range c.Opts {
		if markup, ok := opt.(*telebot.ReplyMarkup); ok {
			return markup
		}
	}
	return nil
}

// Context is a recording telebot.Context. Only the methods the bot uses are
// implemented; calling any other method panics.
type Context struct {
	telebot.Context

	User *telebot.User
	Msg  *telebot.Message
	Cb   *telebot.Callback

	SendErr error
	EditErr error

	mu        sync.Mutex
	sent      []Call
	edited    []Call
	responses []*telebot.CallbackResponse
	store     map[string]interface{}
}

// NewMessage builds a context for a text message from userID.
func NewMessage(userID int64, text string) *Context {
	user := &telebot.User{ID: userID, FirstName: "Test", LastName: "User"}
	return &Context{
		User: user,
		Msg: &telebot.Message{
			ID:     1,
			Sender: user,
			Chat:   &telebot.Chat{ID: userID, Type: telebot.ChatPrivate},
			Text:   text,
		},
	}
}

// NewCallback builds a context for an inline button press by userID.
func NewCallback(userID int64, data string) *Context {
	user := &telebot.User{ID: userID, FirstName: "Test", LastName: "User"}
	return &Context{
		User: user,
		Cb: &telebot.Callback{
			ID:     "cb-1",
			Sender: user,
			Data:   data,
			Message: &telebot.Message{
				ID:   10,
				Chat: &telebot.Chat{ID: userID, Type: telebot.ChatPrivate},
				Text: "Hello! Please subscribe to our channel to use the bot.",
			},
		},
	}
}

func (c *Context) Sender() *telebot.User { return c.User }

func (c *Context) Message() *telebot.Message {
	if c.Cb != nil && c.Cb.Message != nil {
		return c.Cb.Message
	}
	return c.Msg
}

func (c *Context) Callback() *telebot.Callback { return c.Cb }

func (c *Context) Chat() *telebot.Chat {
	if msg := c.Message(); msg != nil {
		return msg.Chat
	}
	return nil
}

func (c *Context) Text() string {
	msg := c.Message()
	if msg == nil {
		return ""
	}
	if msg.Caption != "" {
		return msg.Caption
	}
	return msg.Text
}

func (c *Context) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, Call{What: what, Opts: opts})
	return c.SendErr
}

func (c *Context) Reply(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, Call{What: what, Opts: opts, Reply: true})
	return c.SendErr
}

func (c *Context) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.edited = append(c.edited, Call{What: what, Opts: opts})
	return c.EditErr
}

func (c *Context) Respond(resp ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(resp) == 0 {
		c.responses = append(c.responses, &telebot.CallbackResponse{})
		return nil
	}
	c.responses = append(c.responses, resp...)
	return nil
}

func (c *Context) Get(key string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[key]
}

func (c *Context) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = val
}

// Sent returns every recorded Send and Reply call in order.
func (c *Context) Sent() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.sent...)
}

// Edited returns every recorded Edit call.
func (c *Context) Edited() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.edited...)
}

// Responses returns every recorded callback answer.
func (c *Context) Responses() []*telebot.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*telebot.CallbackResponse(nil), c.responses...)
}

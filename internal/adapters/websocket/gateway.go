package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sns/internal/apperror"
	"sns/internal/config"
	authapp "sns/internal/core/auth/service"
	chatEntity "sns/internal/core/chat"
	userEntity "sns/internal/core/user"
	chatPort "sns/internal/ports/chat"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendQueueSize  = 64
)

// ChatService is the slice of the chat application service the gateway uses.
type ChatService interface {
	CreateChat(ctx context.Context, userIDs []uint) (*chatEntity.Chat, error)
	CheckChatExists(ctx context.Context, chatID uint) (bool, error)
	CreateMessage(ctx context.Context, chatID, authorID uint, text string) (*chatEntity.Message, error)
}

type TokenAuthenticator interface {
	ExtractTokenFromHeader(header string, isBearer bool) (string, error)
	VerifyToken(token string) (*authapp.TokenClaims, error)
}

type UserLoader interface {
	GetUserByEmail(ctx context.Context, email string) (*userEntity.User, error)
}

// Frame is the wire format in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type exceptionPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Gateway upgrades authenticated connections and dispatches chat events.
type Gateway struct {
	chats ChatService
	auth  TokenAuthenticator
	users UserLoader
	hub   *Hub

	upgrader websocket.Upgrader
}

func NewGateway(chats ChatService, auth TokenAuthenticator, users UserLoader) *Gateway {
	return &Gateway{
		chats: chats,
		auth:  auth,
		users: users,
		hub:   NewHub(),
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

// Handler authenticates the handshake with the same bearer token the HTTP
// surface uses, then upgrades and runs the client pumps.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := g.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(apperror.HTTPStatus(err), gin.H{"error": apperror.MessageOf(err)})
			return
		}

		conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			config.Logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			gateway: g,
			conn:    conn,
			user:    *u,
			send:    make(chan []byte, sendQueueSize),
		}

		go client.writePump()
		client.readPump()
	}
}

func (g *Gateway) authenticate(c *gin.Context) (*userEntity.User, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, apperror.New(apperror.Unauthenticated, "token is missing")
	}

	token, err := g.auth.ExtractTokenFromHeader(header, true)
	if err != nil {
		return nil, err
	}

	claims, err := g.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	u, err := g.users.GetUserByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		return nil, apperror.New(apperror.Unauthenticated, "token subject does not exist")
	}
	return u, nil
}

// Client is one authenticated socket.
type Client struct {
	gateway *Gateway
	conn    *websocket.Conn
	user    userEntity.User
	send    chan []byte
}

func (c *Client) readPump() {
	defer func() {
		c.gateway.hub.Leave(c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendException(apperror.New(apperror.InvalidInput, "malformed frame"))
			continue
		}

		if err := c.handle(frame); err != nil {
			c.sendException(err)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(frame Frame) error {
	ctx := context.Background()

	switch frame.Event {
	case "create_chat":
		var data struct {
			UserIDs []uint `json:"userIds"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return apperror.New(apperror.InvalidInput, "malformed create_chat payload")
		}

		created, err := c.gateway.chats.CreateChat(ctx, data.UserIDs)
		if err != nil {
			return err
		}
		c.sendFrame("chat_created", created)
		return nil

	case "enter_chat":
		var data struct {
			ChatIDs []uint `json:"chatIds"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return apperror.New(apperror.InvalidInput, "malformed enter_chat payload")
		}

		for _, chatID := range data.ChatIDs {
			exists, err := c.gateway.chats.CheckChatExists(ctx, chatID)
			if err != nil {
				return err
			}
			if !exists {
				return apperror.Newf(apperror.NotFound, "chat %d does not exist", chatID)
			}
		}
		c.gateway.hub.Join(c, data.ChatIDs...)
		return nil

	case "send_message":
		var data struct {
			ChatID  uint   `json:"chatId"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return apperror.New(apperror.InvalidInput, "malformed send_message payload")
		}

		msg, err := c.gateway.chats.CreateMessage(ctx, data.ChatID, c.user.ID, data.Message)
		if err != nil {
			return err
		}

		out, err := json.Marshal(outFrame{
			Event: "receive_message",
			Data: chatPort.MessageDTO{
				ChatID:  msg.ChatID,
				Message: msg.Text,
				Author:  c.user.Nickname,
			},
		})
		if err != nil {
			return apperror.Wrap(apperror.Internal, "could not encode message", err)
		}
		c.gateway.hub.Broadcast(msg.ChatID, c, out)
		return nil

	default:
		return apperror.Newf(apperror.InvalidInput, "unknown event %q", frame.Event)
	}
}

func (c *Client) sendFrame(event string, data interface{}) {
	raw, err := json.Marshal(outFrame{Event: event, Data: data})
	if err != nil {
		config.Logger.Error("could not encode frame", zap.Error(err))
		return
	}
	select {
	case c.send <- raw:
	default:
	}
}

// sendException converts an error into the application-level exception frame.
// Missing chats keep the code the mobile clients already expect.
func (c *Client) sendException(err error) {
	code := apperror.HTTPStatus(err)
	if apperror.KindOf(err) == apperror.NotFound {
		code = 100
	}
	c.sendFrame("exception", exceptionPayload{Code: code, Message: apperror.MessageOf(err)})
}

package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// ConnectWS upgrades to a websocket. Every text message is handled like the
// body of [GameHandler.Batch] and answered with the resulting game state.
func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	// fail before upgrading so plain HTTP errors reach the client
	if _, err := g.withSession(r, true, batch("g")); err != nil {
		sendError(w, g.logger, err)
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer c.Close()

	log := g.logger.WithField("game", r.PathValue("id"))
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			log.Debug("ignoring non-text websocket message")
			continue
		}

		var reply any
		dto, err := g.withSession(r, true, batch(string(message)))
		switch {
		case err == nil:
			reply = dto
		case errorStatus(err) == http.StatusInternalServerError:
			log.WithError(err).Error("websocket command failed")
			reply = map[string]string{"error": "internal error"}
		default:
			reply = wrapError(err)
		}

		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
		if dto != nil && dto.Result.Ended {
			log.Debug("closing websocket after game over")
			err := c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
			if err != nil {
				log.WithError(err).Warn("websocket close failed")
			}
			return
		}
	}
}

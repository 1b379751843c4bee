package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxMessageSize = 64 << 10
	// wsMaxRejected closes the connection after this many unusable messages.
	wsMaxRejected = 5
)

// WSHandler streams a single certification attempt over a websocket: the client
// submits its answers, the server reports each stage and then the outcome.
type WSHandler struct {
	service  *app.CertificationService
	log      logger.Log
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.CertificationService, log logger.Log) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type submitPayload struct {
	Answers domain.SubmissionAnswers `json:"answers"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type stagePayload struct {
	Stage domain.AttemptStage `json:"stage"`
	Score *float64            `json:"score,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one attempt for courseId and walletAddress.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	rawCourse := r.URL.Query().Get("courseId")
	wallet := r.URL.Query().Get("walletAddress")
	if rawCourse == "" || wallet == "" {
		http.Error(w, "missing courseId or walletAddress", http.StatusBadRequest)
		return
	}
	courseID, err := strconv.ParseInt(rawCourse, 10, 64)
	if err != nil {
		http.Error(w, "invalid courseId", http.StatusBadRequest)
		return
	}
	if err := domain.ValidateRecipient(wallet); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", logger.Err(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", logger.Err(err))
				return
			}
		}
	}()

	// enqueue gives up once the writer has stopped so the reader never blocks on a dead connection.
	enqueue := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	h.readSubmission(r, conn, courseID, wallet, enqueue)

	close(send)
	<-writerDone
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
	_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(wsWriteWait))
}

// readSubmission handles messages until one submit has been answered, the client
// goes away or it has sent too many unusable messages.
func (h *WSHandler) readSubmission(r *http.Request, conn *websocket.Conn, courseID int64, wallet string, enqueue func(outboundMessage[any]) bool) {
	rejected := 0
	reject := func(message string) bool {
		rejected++
		if rejected >= wsMaxRejected {
			message = "too many invalid messages"
		}
		return enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}) && rejected < wsMaxRejected
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if inbound.Type != "submit" {
			if !reject("unsupported message type") {
				return
			}
			continue
		}
		var payload submitPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			if !reject("invalid submit payload") {
				return
			}
			continue
		}

		observe := func(stage domain.AttemptStage, score *domain.ScoreResult) {
			msg := stagePayload{Stage: stage}
			if score != nil {
				display := displayScore(score.Percentage)
				msg.Score = &display
			}
			enqueue(outboundMessage[any]{Type: "stage", Payload: msg})
		}
		outcome, err := h.service.SubmitObserved(r.Context(), courseID, wallet, payload.Answers, observe)
		if err != nil {
			if submitErrorStatus(err) == http.StatusInternalServerError {
				h.log.ErrorErr("ws submit", err, "course_id", courseID)
			}
			enqueue(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
			return
		}
		enqueue(outboundMessage[any]{Type: "outcome", Payload: newOutcomeResponse(outcome)})
		return
	}
}

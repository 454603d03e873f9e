package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"booknest/middleware"
	"booknest/models"
	"booknest/services/session"
	"booknest/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler exposes booking sessions over HTTP.
type SessionHandler struct {
	Registry *session.Registry
}

func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{Registry: registry}
}

func controllerFrom(c *gin.Context) *session.Controller {
	return c.MustGet(middleware.SessionKey).(*session.Controller)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// CreateSessionHandler starts a session. A bearer token from an earlier
// sign-in lets the session start authenticated.
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	id, ctrl := h.Registry.Create(bearerToken(c))
	getLogger(c).Info("Session started", zap.String("sessionId", id))
	c.JSON(http.StatusCreated, gin.H{"sessionId": id, "state": ctrl.Current()})
}

func (h *SessionHandler) GetStateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, controllerFrom(c).Current())
}

// StreamEventsHandler streams every snapshot as a server-sent "state" event
// until the client goes away or the session closes.
func (h *SessionHandler) StreamEventsHandler(c *gin.Context) {
	updates, cancel := controllerFrom(c).Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case s, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("state", s)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// maxIntentBytes bounds intent and verify request bodies.
const maxIntentBytes = 64 << 10

// DispatchIntentHandler applies a wire intent. Outcomes of the intent show
// up in the returned or a later snapshot, never as an HTTP error.
func (h *SessionHandler) DispatchIntentHandler(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxIntentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "Request body too large", err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	in, err := session.DecodeIntent(body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid intent", err.Error())
		return
	}

	ctrl := controllerFrom(c)
	getLogger(c).Debug("Dispatching intent", zap.String("intent", session.IntentName(in)))
	ctrl.Dispatch(in)
	c.JSON(http.StatusAccepted, ctrl.Current())
}

func (h *SessionHandler) VerifyOtpHandler(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxIntentBytes)
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	ctrl := controllerFrom(c)
	ctrl.VerifyOtpManually(input.Code)
	c.JSON(http.StatusAccepted, ctrl.Current())
}

func (h *SessionHandler) GetAccountHandler(c *gin.Context) {
	account, ok := controllerFrom(c).Account()
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Not signed in", "")
		return
	}
	c.JSON(http.StatusOK, account)
}

// SelectionView is the selected hotel as the room picker shows it.
type SelectionView struct {
	Hotel        models.Hotel     `json:"hotel"`
	Tag          string           `json:"tag"`
	Amenities    []models.Amenity `json:"amenities"`
	Rooms        []models.Room    `json:"rooms"`
	SelectedRoom *models.Room     `json:"selectedRoom,omitempty"`
}

func (h *SessionHandler) GetSelectionHandler(c *gin.Context) {
	s := controllerFrom(c).Current()
	if s.SelectedHotel == nil {
		utils.JSONError(c, http.StatusNotFound, "No hotel selected", "")
		return
	}
	rooms := s.Rooms
	// Sold-out hotels offer no rooms.
	if s.SelectedHotel.Status == models.HotelSoldOut {
		rooms = []models.Room{}
	}
	c.JSON(http.StatusOK, SelectionView{
		Hotel:        *s.SelectedHotel,
		Tag:          s.SelectedHotel.Tag(),
		Amenities:    models.Amenities(s.SelectedHotel.Amenities),
		Rooms:        rooms,
		SelectedRoom: s.SelectedRoom,
	})
}

func (h *SessionHandler) CheckoutHandler(c *gin.Context) {
	summary, err := session.Checkout(controllerFrom(c).Current())
	if errors.Is(err, session.ErrNothingSelected) {
		utils.JSONError(c, http.StatusConflict, "Select a hotel and a room first", err.Error())
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Checkout failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *SessionHandler) DeleteSessionHandler(c *gin.Context) {
	if err := h.Registry.Remove(c.Param("id")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "Session not found", c.Param("id"))
		return
	}
	c.Status(http.StatusNoContent)
}

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": http.StatusText(code), "message": "Hi, I'm BookNest", "health": status})
}

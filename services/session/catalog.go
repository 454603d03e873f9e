package session

import (
	"context"
	"strings"

	"booknest/models"

	"go.uber.org/zap"
)

func (c *Controller) setLoading() {
	c.update(func(s State) State {
		s.IsLoading = true
		return s
	})
}

func (c *Controller) fetchHotels() {
	c.setLoading()
	c.launch(func(ctx context.Context, epoch uint64) {
		recs, err := c.data.GetCollection(ctx, PathHotels)
		if err != nil {
			c.fail(epoch, "fetchHotels", err)
			return
		}
		hotels := decodeAll[models.Hotel](c.logger, PathHotels, recs)
		c.logger.Debug("session: fetched hotels", zap.Int("count", len(hotels)))
		c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.Hotels = hotels
			return s
		})
	})
}

func (c *Controller) fetchBestPlaces() {
	c.setLoading()
	c.launch(func(ctx context.Context, epoch uint64) {
		recs, err := c.data.GetCollection(ctx, PathPlaces)
		if err != nil {
			c.fail(epoch, "fetchBestPlaces", err)
			return
		}
		places := decodeAll[models.Place](c.logger, PathPlaces, recs)
		c.logger.Debug("session: fetched places", zap.Int("count", len(places)))
		c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.BestPlaces = places
			return s
		})
	})
}

// fetchRoomsForHotel selects the hotel and blanks the room list before the
// read starts so stale rooms are never shown under the new hotel.
func (c *Controller) fetchRoomsForHotel(hotel models.Hotel) {
	c.update(func(s State) State {
		h := hotel
		s.IsLoading = true
		s.SelectedHotel = &h
		s.Rooms = []models.Room{}
		s.SelectedRoom = nil
		return s
	})

	path := RoomsPath(hotel.ID)
	c.launch(func(ctx context.Context, epoch uint64) {
		recs, err := c.data.GetCollection(ctx, path)
		if err != nil {
			c.logger.Warn("session: gateway call failed", zap.String("op", "fetchRoomsForHotel"), zap.Error(err))
			c.complete(epoch, func(s State) State {
				if supersededBy(s, hotel.ID) {
					return s
				}
				s.IsLoading = false
				if s.SelectedHotel != nil {
					s.ErrorMessage = message(err.Error())
				}
				return s
			})
			return
		}
		rooms := c.roomsOf(hotel.ID, decodeAll[models.Room](c.logger, path, recs))
		c.complete(epoch, func(s State) State {
			if supersededBy(s, hotel.ID) {
				c.logger.Debug("session: dropping rooms of deselected hotel", zap.String("hotelId", hotel.ID))
				return s
			}
			s.IsLoading = false
			if s.SelectedHotel == nil {
				return s
			}
			s.Rooms = rooms
			return s
		})
	})
}

// supersededBy reports whether another hotel was selected after hotelID. Its
// own read is still in flight and owns the loading flag.
func supersededBy(s State, hotelID string) bool {
	return s.SelectedHotel != nil && s.SelectedHotel.ID != hotelID
}

// roomsOf keeps the rooms belonging to hotelID. Rooms stored without a
// hotel id inherit the one they were read under.
func (c *Controller) roomsOf(hotelID string, rooms []models.Room) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		switch r.HotelID {
		case "":
			r.HotelID = hotelID
		case hotelID:
		default:
			c.logger.Warn("session: room references another hotel",
				zap.String("roomId", r.ID), zap.String("hotelId", r.HotelID), zap.String("expected", hotelID))
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *Controller) searchHotels() {
	destination := c.snapshot().Destination
	if strings.TrimSpace(destination) == "" {
		c.logger.Debug("session: search aborted, destination is blank")
		c.update(func(s State) State {
			s.ErrorMessage = message(MsgDestinationRequired)
			return s
		})
		return
	}

	c.setLoading()
	c.launch(func(ctx context.Context, epoch uint64) {
		recs, err := c.data.GetFiltered(ctx, PathHotels, "location", destination)
		if err != nil {
			c.fail(epoch, "searchHotels", err)
			return
		}
		hotels := decodeAll[models.Hotel](c.logger, PathHotels, recs)
		c.logger.Debug("session: search finished",
			zap.String("destination", destination), zap.Int("count", len(hotels)))
		c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.Hotels = hotels
			return s
		})
	})
}

func (c *Controller) fetchPlaceDetailsByID(id string) {
	c.update(func(s State) State {
		s.IsLoading = true
		s.SelectedPlaceDetails = nil
		return s
	})

	c.launch(func(ctx context.Context, epoch uint64) {
		rec, err := c.data.GetDocument(ctx, PathPlaces, id)
		if err != nil {
			c.fail(epoch, "fetchPlaceDetailsById", err)
			return
		}
		if rec == nil {
			c.logger.Info("session: place not found", zap.String("id", id))
			c.complete(epoch, func(s State) State {
				s.IsLoading = false
				s.ErrorMessage = message(MsgPlaceNotFound)
				return s
			})
			return
		}

		var place models.Place
		if err := rec.Decode(&place); err != nil {
			c.fail(epoch, "fetchPlaceDetailsById", err)
			return
		}
		if place.ID == "" {
			place.ID = id
		}
		details := place.Details()
		c.complete(epoch, func(s State) State {
			s.IsLoading = false
			s.SelectedPlaceDetails = &details
			return s
		})
	})
}

// decodeAll decodes every record it can and logs the ones it cannot.
func decodeAll[T any](logger *zap.Logger, path string, recs []Record) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := rec.Decode(&v); err != nil {
			logger.Warn("session: skipping undecodable record", zap.String("path", path), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}

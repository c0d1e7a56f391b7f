package mux

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"github.com/sonnh58/lieng.wtf/pkg/lieng"
	"github.com/sonnh58/lieng.wtf/pkg/table"
)

func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		player := r.Context().Value(ctxPlayerKey).(*table.Player)
		rooms, err := player.GetRooms(r.Context(), offset, limit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, rooms)
	}
}

type postRoomPayload struct {
	Name    string         `json:"name"`
	Options *lieng.Options `json:"options"`
}

func (m *Mux) postRoom() http.HandlerFunc {
	var wordChar = regexp.MustCompile(`\w`)
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		opts := lieng.DefaultOptions()
		if pp.Options != nil {
			opts = *pp.Options
		}

		player := r.Context().Value(ctxPlayerKey).(*table.Player)
		rm, err := player.CreateRoom(r.Context(), pp.Name, opts)
		if err != nil {
			var ue table.UserError
			if errors.As(err, &ue) {
				writeJSONError(w, http.StatusBadRequest, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, rm)
	}
}

type postRoomJoinPayload struct {
	JoinCode string `json:"joinCode"`
}

// postRoomJoin seats the player in the room matching the shareable join code
func (m *Mux) postRoomJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postRoomJoinPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if pp.JoinCode == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("missing join code"))
			return
		}

		rm, err := table.GetRoomByJoinCode(r.Context(), pp.JoinCode)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		player := r.Context().Value(ctxPlayerKey).(*table.Player)
		playerRoom, err := player.Join(r.Context(), rm)
		if err != nil {
			if err == table.ErrDuplicateKey {
				writeJSONError(w, http.StatusBadRequest, errors.New("player is already in the room"))
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		writeJSON(w, http.StatusCreated, playerRoom)
	}
}

type getRoomUUIDResponse struct {
	*table.Room
	Players []*table.PlayerRoom `json:"players"`
	Rounds  int64               `json:"rounds"`
}

func (m *Mux) getRoomUUID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rm := r.Context().Value(ctxRoomKey).(*table.Room)
		players, err := rm.GetPlayers(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		rounds, err := rm.GetRoundsCount(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, getRoomUUIDResponse{
			Room:    rm,
			Players: players,
			Rounds:  rounds,
		})
	})
}

func (m *Mux) postRoomUUIDSeat() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		player := r.Context().Value(ctxPlayerKey).(*table.Player)
		rm := r.Context().Value(ctxRoomKey).(*table.Room)

		playerRoom, err := player.Join(r.Context(), rm)
		if err != nil {
			if err == table.ErrDuplicateKey {
				writeJSONError(w, http.StatusBadRequest, errors.New("player is already in the room"))
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}

			return
		}

		writeJSON(w, http.StatusCreated, playerRoom)
	})
}

func (m *Mux) roomMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		rm, err := table.GetRoomByUUID(r.Context(), uuid)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxRoomKey, rm)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

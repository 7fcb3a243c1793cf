package httpapi

import (
	"net/http"

	"github.com/florify/florify/internal/server/models"
	"github.com/florify/florify/internal/server/validation"
)

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := validation.ParsePage(q.Get("page"), q.Get("limit"))

	boards, err := s.loader.ListBoards(r.Context(), currentUser(r.Context()).ID, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var in models.NewBoard
	if !decodeBody(w, r, &in) {
		return
	}
	in.OwnerID = currentUser(r.Context()).ID

	board, err := s.loader.CreateBoard(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	board, err := s.loader.GetBoard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.BoardUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	board, err := s.loader.UpdateBoard(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.loader.DeleteBoard(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page := validation.ParsePage(q.Get("page"), q.Get("limit"))

	bookmarks, err := s.loader.ListBookmarks(r.Context(), id, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.NewBookmark
	if !decodeBody(w, r, &in) {
		return
	}
	in.BoardID = id

	bookmark, err := s.loader.CreateBookmark(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

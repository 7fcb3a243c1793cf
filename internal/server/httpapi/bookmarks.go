package httpapi

import (
	"net/http"

	"github.com/florify/florify/internal/server/models"
)

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.BookmarkUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	bookmark, err := s.loader.UpdateBookmark(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.loader.DeleteBookmark(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

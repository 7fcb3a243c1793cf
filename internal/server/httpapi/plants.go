package httpapi

import (
	"net/http"

	"github.com/florify/florify/internal/server/models"
)

type idResponse struct {
	ID int64 `json:"id"`
}

type photoResponse struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url"`
}

func (s *Server) handleListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.loader.ListPlants(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

func (s *Server) handleCreatePlant(w http.ResponseWriter, r *http.Request) {
	var in models.NewPlant
	if !decodeBody(w, r, &in) {
		return
	}
	in.UserID = currentUser(r.Context()).ID

	plant, err := s.loader.CreatePlant(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plant)
}

func (s *Server) handleGetPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	plant, err := s.loader.GetPlantWithReadings(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}

func (s *Server) handleUpdatePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.PlantUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	plant, err := s.loader.UpdatePlant(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}

func (s *Server) handleDeletePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.loader.DeletePlant(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordReading(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.NewReading
	if !decodeBody(w, r, &in) {
		return
	}
	in.PlantID = id

	readingID, err := s.loader.RecordReading(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: readingID})
}

func (s *Server) handlePhotoUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	key, url, err := s.loader.PhotoUploadURL(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{Key: key, URL: url})
}

func (s *Server) handlePhotoDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	url, err := s.loader.PhotoDownloadURL(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photoResponse{URL: url})
}

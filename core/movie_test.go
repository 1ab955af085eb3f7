package core

import "testing"

func TestMovieAverageRating(t *testing.T) {
	m := NewMovie(1)
	if got := m.AverageRating(); got != 0 {
		t.Errorf("AverageRating() with no ratings = %v, want 0", got)
	}

	m.AddRating(&Rating{Score: 3.0})
	m.AddRating(&Rating{Score: 4.0})
	if got := m.AverageRating(); got != 3.5 {
		t.Errorf("AverageRating() = %v, want 3.5", got)
	}
	if got := m.RatingNumber(); got != 2 {
		t.Errorf("RatingNumber() = %d, want 2", got)
	}
}

func TestMovieEmbSwap(t *testing.T) {
	m := NewMovie(1)
	if m.Emb() != nil {
		t.Error("Emb() before load should be nil")
	}

	m.SetEmb(Embedding{0.1, 0.2})
	m.SetEmb(Embedding{0.9})
	if got := m.Emb(); got.Dim() != 1 || got[0] != 0.9 {
		t.Errorf("Emb() after swap = %v, want [0.9]", got)
	}
}

func TestMovieFeaturesSwap(t *testing.T) {
	m := NewMovie(1)
	if m.Features() != nil {
		t.Error("Features() before load should be nil")
	}

	m.SetFeatures(map[string]string{"movieGenre1": "Comedy"})
	m.SetFeatures(map[string]string{"movieGenre1": "Drama"})
	if got := m.Features()["movieGenre1"]; got != "Drama" {
		t.Errorf("Features() after swap = %v", m.Features())
	}
}

func TestMovieGenres(t *testing.T) {
	m := NewMovie(1)
	m.AddGenre("Action")
	m.AddGenre("Crime")
	if len(m.Genres) != 2 || m.Genres[0] != "Action" || m.Genres[1] != "Crime" {
		t.Errorf("Genres = %v", m.Genres)
	}
}

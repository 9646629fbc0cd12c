package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/challenge"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/game"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/imagebank"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/riddle"
	"github.com/Nindenkawe/Bavuga-Nti-bavuga/internal/session"
)

// challengeResponse is the client-facing challenge shape. The expected
// answer never leaves the server.
type challengeResponse struct {
	ChallengeID   string `json:"challenge_id"`
	SourceText    string `json:"source_text"`
	Context       string `json:"context"`
	ChallengeType string `json:"challenge_type"`
	Difficulty    int    `json:"difficulty"`
}

type errorResponse struct {
	ErrorMessage string `json:"error_message"`
}

func toChallengeResponse(ch *challenge.Challenge) challengeResponse {
	return challengeResponse{
		ChallengeID:   ch.ID,
		SourceText:    ch.SourceText,
		Context:       ch.Context,
		ChallengeType: string(ch.Type),
		Difficulty:    ch.Difficulty,
	}
}

func (s *Server) getChallenge(c *gin.Context) {
	var difficulty int
	if raw := c.Query("difficulty"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Invalid 'difficulty' parameter."})
			return
		}
		difficulty = v
	}

	ch, err := s.svc.NextChallenge(c.Request.Context(), sessionID(c), game.Mode(c.Query("game_mode")), difficulty)
	switch {
	case errors.Is(err, session.ErrInvalidMode):
		c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Invalid 'game_mode' parameter."})
	case errors.Is(err, riddle.ErrEmpty):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{ErrorMessage: "Riddle database is empty."})
	case errors.Is(err, imagebank.ErrNoImages):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{ErrorMessage: fmt.Sprintf("No images found in the %s directory.", s.cfg.ImageDir)})
	case err != nil:
		s.log.Error().Err(err).Msg("challenge generation failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to generate challenge."})
	default:
		c.JSON(http.StatusOK, toChallengeResponse(ch))
	}
}

func (s *Server) soma(c *gin.Context) {
	ch, err := s.svc.Soma(c.Request.Context(), sessionID(c))
	switch {
	case errors.Is(err, challenge.ErrNoPendingRiddle):
		c.JSON(http.StatusConflict, errorResponse{ErrorMessage: "No pending riddle."})
	case err != nil:
		s.log.Error().Err(err).Msg("soma failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to reveal riddle."})
	default:
		c.JSON(http.StatusOK, toChallengeResponse(ch))
	}
}

type answerRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Answer      string `json:"answer"`
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Invalid request body."})
		return
	}

	result, err := s.svc.SubmitAnswer(c.Request.Context(), sessionID(c), req.ChallengeID, req.Answer)
	switch {
	case errors.Is(err, session.ErrChallengeNotFound):
		c.JSON(http.StatusNotFound, errorResponse{ErrorMessage: "Challenge not found."})
	case err != nil:
		s.log.Error().Err(err).Msg("answer submission failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to evaluate answer."})
	default:
		c.JSON(http.StatusOK, result)
	}
}

type hintRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
}

func (s *Server) hint(c *gin.Context) {
	var req hintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Invalid request body."})
		return
	}

	hint, err := s.svc.Hint(c.Request.Context(), req.ChallengeID)
	switch {
	case errors.Is(err, session.ErrChallengeNotFound):
		c.JSON(http.StatusNotFound, errorResponse{ErrorMessage: "Challenge not found."})
	case err != nil:
		s.log.Error().Err(err).Msg("hint generation failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to produce a hint."})
	default:
		c.JSON(http.StatusOK, gin.H{"hint": hint})
	}
}

type feedbackRequest struct {
	ChallengeID string `json:"challenge_id" binding:"required"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

func (s *Server) feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Invalid request body."})
		return
	}

	err := s.svc.Feedback(c.Request.Context(), req.ChallengeID, req.Rating, req.Comment)
	switch {
	case errors.Is(err, session.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, errorResponse{ErrorMessage: "Rating must be between 1 and 5."})
	case err != nil:
		s.log.Error().Err(err).Msg("feedback write failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to store feedback."})
	default:
		c.Status(http.StatusNoContent)
	}
}

// stateResponse summarizes a session. The pending riddle answer stays
// server-side; only its presence is reported.
type stateResponse struct {
	Lives            int       `json:"lives"`
	Score            int       `json:"score"`
	TotalScore       int       `json:"total_score"`
	Difficulty       int       `json:"difficulty"`
	GameMode         game.Mode `json:"game_mode"`
	StoryChapter     int       `json:"story_chapter"`
	ThematicWords    []string  `json:"thematic_words,omitempty"`
	HasPendingRiddle bool      `json:"has_pending_riddle"`
}

func (s *Server) state(c *gin.Context) {
	id := sessionID(c)

	st, err := s.svc.State(c.Request.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Msg("state lookup failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to load session state."})
		return
	}
	total, err := s.svc.TotalScore(c.Request.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Msg("total score lookup failed")
		c.JSON(http.StatusInternalServerError, errorResponse{ErrorMessage: "Failed to load session state."})
		return
	}

	c.JSON(http.StatusOK, stateResponse{
		Lives:            st.Lives,
		Score:            st.Score,
		TotalScore:       total,
		Difficulty:       st.Difficulty,
		GameMode:         st.GameMode,
		StoryChapter:     st.StoryChapter,
		ThematicWords:    st.ThematicWords,
		HasPendingRiddle: st.PendingRiddle != "",
	})
}

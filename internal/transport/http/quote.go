package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/fleshka4/quote-aggregator/internal/apperrors"
	"github.com/fleshka4/quote-aggregator/internal/model"
	"github.com/fleshka4/quote-aggregator/internal/transport/http/dto"
	"github.com/fleshka4/quote-aggregator/internal/transport/http/validate"
)

type parseFunc func(r *http.Request) (*model.QuoteRequest, int, error)

func (s *Server) handleQuoteQuery(w http.ResponseWriter, r *http.Request) {
	s.handleQuote(w, r, validate.QuoteQueryValidate)
}

func (s *Server) handleQuoteBody(w http.ResponseWriter, r *http.Request) {
	s.handleQuote(w, r, validate.QuoteBodyValidate)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request, parse parseFunc) {
	req, code, err := parse(r)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		s.writeError(w, code, err.Error())
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	env, err := s.svc.Quote(ctx, *req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidArgument):
			s.writeError(w, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, apperrors.ErrTokenMetadata):
			s.log.Error().Err(err).Msg("quote failed")
			s.writeError(w, http.StatusBadGateway, err.Error())
		default:
			s.log.Error().Err(err).Msg("quote failed")
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	env, ok := s.svc.Lookup(r.PathValue("requestId"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleChains(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"chains": s.svc.Chains()})
}

func (s *Server) handleDapps(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"dapps": s.svc.Providers()})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, dto.ErrorResponse{Success: false, Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("response write error")
	}
}

// validationMessage drops the sentinel suffix added by errors.Wrap.
func validationMessage(err error) string {
	return strings.TrimSuffix(err.Error(), ": "+apperrors.ErrInvalidArgument.Error())
}

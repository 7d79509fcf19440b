package server

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"github.com/piwi3910/DeckTakeoff/internal/engine"
	"github.com/piwi3910/DeckTakeoff/internal/errors"
	"github.com/piwi3910/DeckTakeoff/internal/model"
	"github.com/piwi3910/DeckTakeoff/internal/project"
	"github.com/piwi3910/DeckTakeoff/internal/validation"
)

// Request is the body of the POST routes. Inputs is a design in the same
// JSON form as a design file. Assumptions and EstimateSettings are decoded
// over the server defaults, so a partial object changes only what it names.
type Request struct {
	Inputs           json.RawMessage    `json:"inputs"`
	Assumptions      json.RawMessage    `json:"assumptions,omitempty"`
	Template         string             `json:"template,omitempty"`
	Labor            model.LaborOptions `json:"labor"`
	EstimateSettings json.RawMessage    `json:"estimate_settings,omitempty"`
}

// Response is the body returned by the POST routes. Fields are present
// according to the route.
type Response struct {
	Takeoff          *model.TakeoffResult    `json:"takeoff,omitempty"`
	Labor            *model.LaborPlanResult  `json:"labor,omitempty"`
	EstimateSettings *model.EstimateSettings `json:"estimate_settings,omitempty"`
	Estimate         *model.EstimateTotals   `json:"estimate,omitempty"`
	Validation       *validation.Report      `json:"validation,omitempty"`
}

type errorResponse struct {
	Error      string             `json:"error"`
	Code       errors.Code        `json:"code,omitempty"`
	Validation *validation.Report `json:"validation,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

// decodeRequest reads the body and decodes the design inputs.
func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, model.DesignInputs, error) {
	var req Request
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse request")
	}
	if len(req.Inputs) == 0 {
		return req, nil, errors.New(errors.ErrCodeInvalidInput, "request has no inputs")
	}
	in, err := project.ParseDesignInputs(req.Inputs, false)
	if err != nil {
		return req, nil, err
	}
	return req, in, nil
}

// prepare decodes the request and rejects invalid inputs with the report.
// It returns false when a response has already been written.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request) (Request, model.DesignInputs, bool) {
	req, in, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return req, nil, false
	}
	report := validation.ValidateDesignInputs(in)
	if !report.Valid {
		err := report.Err()
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      errors.UserMessage(err),
			Code:       errors.GetCode(err),
			Validation: report,
		})
		return req, nil, false
	}
	return req, in, true
}

// assumptions decodes the request overrides over a copy of the server
// defaults. The stock length slices are cloned first since decoding a JSON
// array reuses the destination's backing array.
func (s *Server) assumptions(req Request) (model.Assumptions, error) {
	a := s.cfg.Assumptions
	a.FramingLengthsFt = slices.Clone(a.FramingLengthsFt)
	a.BoardLengthsFt = slices.Clone(a.BoardLengthsFt)
	if len(req.Assumptions) > 0 {
		if err := json.Unmarshal(req.Assumptions, &a); err != nil {
			return a, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse assumptions")
		}
	}
	return a, nil
}

func (s *Server) estimateSettings(req Request) (model.EstimateSettings, error) {
	es := s.cfg.Estimate
	if len(req.EstimateSettings) > 0 {
		if err := json.Unmarshal(req.EstimateSettings, &es); err != nil {
			return es, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse estimate settings")
		}
	}
	return es, nil
}

// compute runs the core up to the requested depth.
func (s *Server) compute(req Request, in model.DesignInputs, withLabor, withEstimate bool) (Response, error) {
	a, err := s.assumptions(req)
	if err != nil {
		return Response{}, err
	}
	takeoff, err := engine.New(a, s.cfg.Catalog).GenerateTakeoff(in)
	if err != nil {
		return Response{}, err
	}
	resp := Response{Takeoff: &takeoff}
	if !withLabor {
		return resp, nil
	}

	tpl, ok := project.ResolveTemplate(s.cfg.Templates, req.Template, in)
	if !ok {
		return Response{}, errors.New(errors.ErrCodeNotFound, "labor template %q not found", req.Template)
	}
	plan := engine.GenerateLaborPlan(in, takeoff, tpl, req.Labor)
	resp.Labor = &plan
	if !withEstimate {
		return resp, nil
	}

	es, err := s.estimateSettings(req)
	if err != nil {
		return Response{}, err
	}
	totals := engine.EstimateTotals(takeoff.Items, plan, es)
	resp.EstimateSettings = &es
	resp.Estimate = &totals
	return resp, nil
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request, withLabor, withEstimate bool) {
	req, in, ok := s.prepare(w, r)
	if !ok {
		return
	}
	resp, err := s.compute(req, in, withLabor, withEstimate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTakeoff(w http.ResponseWriter, r *http.Request) {
	s.handleCompute(w, r, false, false)
}

func (s *Server) handleLabor(w http.ResponseWriter, r *http.Request) {
	s.handleCompute(w, r, true, false)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	s.handleCompute(w, r, true, true)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	_, in, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Validation: validation.ValidateDesignInputs(in)})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Catalog)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/sitegate/internal/core"
	"github.com/darmiel/sitegate/internal/engine"
	"github.com/darmiel/sitegate/internal/passes"
)

// CheckService runs single-person checks for the API, with auditing and
// optional gate-pass issuance.
type CheckService struct {
	manager    *engine.Manager
	auditor    core.Auditor
	passIssuer *passes.Issuer
	passStore  core.PassStore
}

// NewCheckService creates a CheckService. passIssuer may be nil when pass
// issuance is disabled.
func NewCheckService(
	manager *engine.Manager,
	auditor core.Auditor,
	passIssuer *passes.Issuer,
	passStore core.PassStore,
) *CheckService {
	return &CheckService{
		manager:    manager,
		auditor:    auditor,
		passIssuer: passIssuer,
		passStore:  passStore,
	}
}

func (s *CheckService) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	asOf := core.Today()
	if req.AsOf != nil && !req.AsOf.IsZero() {
		asOf = *req.AsOf
	}

	auditEntry := core.AuditEntry{
		ID:       reqID,
		Time:     time.Now(),
		Action:   core.ActionPersonCheck,
		AsOf:     asOf,
		PersonID: req.Person.ID,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for person check")
		}
	}()

	result, err := s.manager.Engine().CheckWithTraining(req.Person, req.Training, asOf)
	if err != nil {
		auditEntry.Error = err.Error()

		var cfgErr *core.ConfigurationMissingError
		if errors.As(err, &cfgErr) {
			return nil, httpError(http.StatusUnprocessableEntity,
				fmt.Errorf("ruleset gap: %w", err))
		}
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("check engine error: %w", err))
	}
	auditEntry.Verdict = result.Verdict
	auditEntry.Reasons = result.ReasonCodes()

	resp := &CheckResponse{Result: result}

	if req.IssuePass {
		pass, err := s.issuePass(ctx, req.Person, result)
		if err != nil {
			if errors.Is(err, passes.ErrNotEligible) {
				logger.Debug().Str("person", req.Person.ID).Msg("pass requested but person not admissible")
			} else {
				return nil, err
			}
		} else {
			auditEntry.PassFingerprint = pass.Fingerprint
			resp.Pass = pass
		}
	}

	return resp, nil
}

func (s *CheckService) issuePass(ctx context.Context, person core.PersonRecord, result core.CheckResult) (*passes.Pass, error) {
	if s.passIssuer == nil {
		return nil, httpError(http.StatusNotImplemented,
			fmt.Errorf("pass issuance is not configured"))
	}

	pass, err := s.passIssuer.Issue(person, result)
	if err != nil {
		if errors.Is(err, passes.ErrNotEligible) {
			return nil, err
		}
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("issuing pass: %w", err))
	}

	if s.passStore != nil {
		meta := core.PassMetadata{
			PersonID:    pass.PersonID,
			Fingerprint: pass.Fingerprint,
			IssuedAt:    time.Now(),
			ExpiresAt:   pass.ExpiresAt,
		}
		if err := s.passStore.Save(ctx, meta); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to store pass metadata")
		}
	}

	return pass, nil
}

func (s *CheckService) Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error) {
	asOf := core.Today()
	if req.AsOf != nil && !req.AsOf.IsZero() {
		asOf = *req.AsOf
	}

	trace, err := s.manager.Engine().ExplainWithTraining(req.Person, req.Training, asOf)
	if err != nil {
		var cfgErr *core.ConfigurationMissingError
		if errors.As(err, &cfgErr) {
			return nil, httpError(http.StatusUnprocessableEntity,
				fmt.Errorf("ruleset gap: %w", err))
		}
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("check engine error: %w", err))
	}

	return &ExplainResponse{Trace: trace}, nil
}

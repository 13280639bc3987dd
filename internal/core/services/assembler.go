package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nikitagawde10/spanish-professor/internal/core/domain"
)

// FallbackAnswer replaces an empty final text.
const FallbackAnswer = "Sorry, no answer."

// Assemble turns the orchestrator result into the boundary response and its
// HTTP status. Error messages are fixed strings; upstream bodies and
// credentials never reach the caller.
func Assemble(text string, err error) (int, domain.AnswerResponse) {
	if err == nil {
		answer := strings.TrimSpace(text)
		if answer == "" {
			answer = FallbackAnswer
		}
		return http.StatusOK, domain.AnswerResponse{Answer: answer}
	}

	var inputErr *domain.InputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest, domain.AnswerResponse{Error: inputErr.Message}
	}

	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) {
		return backendFailure(backendErr.Kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return backendFailure(domain.BackendTimeout)
	}

	return http.StatusInternalServerError, domain.AnswerResponse{Error: "internal error"}
}

func backendFailure(kind domain.BackendErrorKind) (int, domain.AnswerResponse) {
	msg := "model backend failed"
	if kind == domain.BackendTimeout {
		msg = "model backend timed out"
	}
	return http.StatusBadGateway, domain.AnswerResponse{Error: msg, Detail: string(kind)}
}

package service

import (
	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/ws"
	"go-papelaria-api/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papelaria_mutations_total",
		Help: "Completed writes by entity and action.",
	}, []string{"entity", "action"})

	stockConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "papelaria_stock_consumed_units_total",
		Help: "Raw material units consumed by recorded sales.",
	})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papelaria_auth_attempts_total",
		Help: "Authentication attempts by operation and outcome.",
	}, []string{"operation", "outcome"})
)

// Publisher pushes realtime events to a tenant's connected clients.
type Publisher interface {
	Publish(userID string, ev ws.Event)
}

func validate(in interface{}) error {
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return apperr.Validation(validator.Message(errs))
	}
	return nil
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

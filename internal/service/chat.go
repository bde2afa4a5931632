package service

import (
	"context"
	"strings"

	"github.com/TomyRioss/misstress/internal/domain"

	"go.uber.org/zap"
)

// chatRule pairs a keyword predicate with a canned reply. Rules are
// evaluated top to bottom; the first match wins.
type chatRule struct {
	match func(string) bool
	reply string
}

func anyKeyword(words ...string) func(string) bool {
	return func(msg string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}
}

// ChatService is the local fallback bot: no model behind it, just
// keyword rules over the message. Replies are Spanish like the rest of
// the user-facing strings.
type ChatService struct {
	rules  []chatRule
	logger *zap.Logger
}

// NewChatService builds the rule table.
func NewChatService(logger *zap.Logger) *ChatService {
	return &ChatService{
		logger: logger,
		rules: []chatRule{
			{
				match: anyKeyword("hola", "buenas", "buenos dias", "buenos días"),
				reply: "¡Hola! Soy tu asistente de finanzas. Puedo contarte sobre tu balance, tus gastos, tus ahorros o tus metas.",
			},
			{
				match: anyKeyword("balance", "saldo"),
				reply: "Tu balance del mes está en la pantalla principal. Es la diferencia entre tus ingresos y tus gastos del mes actual.",
			},
			{
				match: anyKeyword("gasto", "gastos", "gasté"),
				reply: "Podés ver tus gastos por categoría en el resumen mensual, y compararlos con el mes anterior en la sección de comparación.",
			},
			{
				match: anyKeyword("ahorro", "ahorrar"),
				reply: "Una regla simple: intentá ahorrar al menos el 20% de tus ingresos. El análisis inteligente te muestra tu tasa de ahorro actual.",
			},
			{
				match: anyKeyword("meta", "metas", "objetivo"),
				reply: "Podés crear metas financieras con un monto objetivo y una fecha límite, y registrar tu progreso a medida que ahorrás.",
			},
			{
				match: anyKeyword("recurrente", "suscripcion", "suscripción", "alquiler"),
				reply: "Los gastos recurrentes se registran automáticamente una vez por mes. Solo definí el monto, la categoría y la frecuencia.",
			},
		},
	}
}

// Reply answers a chat message. Unknown messages get the default reply;
// the response is always flagged as a fallback.
func (s *ChatService) Reply(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	_, span := tracer.Start(ctx, "ChatService.Reply")
	defer span.End()

	if strings.TrimSpace(req.Message) == "" {
		return nil, &domain.ErrValidation{Field: "message", Message: "required"}
	}

	msg := strings.ToLower(req.Message)
	for _, rule := range s.rules {
		if rule.match(msg) {
			return &domain.ChatResponse{Reply: rule.reply, Fallback: true}, nil
		}
	}

	s.logger.Debug("chat message without rule match", zap.Int("len", len(req.Message)))
	return &domain.ChatResponse{
		Reply:    "No entendí tu consulta. Probá preguntarme por tu balance, tus gastos, tus ahorros o tus metas.",
		Fallback: true,
	}, nil
}

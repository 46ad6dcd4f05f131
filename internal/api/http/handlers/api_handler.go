package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jeerawut3427/personal-system/internal/api/dispatch"
	"github.com/jeerawut3427/personal-system/internal/api/dto"
	"github.com/jeerawut3427/personal-system/internal/config"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// APIHandler serves the single action endpoint. Session tokens travel in the
// session cookie; the envelope itself carries no credentials.
type APIHandler struct {
	dispatcher *dispatch.Dispatcher
	authCfg    config.AuthConfig
	logger     *zap.Logger
}

// NewAPIHandler constructs handler.
func NewAPIHandler(dispatcher *dispatch.Dispatcher, authCfg config.AuthConfig, logger *zap.Logger) *APIHandler {
	return &APIHandler{dispatcher: dispatcher, authCfg: authCfg, logger: logger}
}

// Handle processes POST /api.
func (h *APIHandler) Handle(c *fiber.Ctx) error {
	var envelope dto.ActionRequest
	if err := c.BodyParser(&envelope); err != nil {
		return writeError(c, util.ToDomainError(util.NewBadRequest("malformed request envelope")))
	}
	if envelope.Action == "" {
		return writeError(c, util.ToDomainError(util.NewBadRequest("action is required")))
	}

	req := &dispatch.Request{
		Action:     envelope.Action,
		Payload:    envelope.Payload,
		Token:      c.Cookies(h.authCfg.CookieName),
		RemoteAddr: c.IP(),
	}

	result, err := h.dispatcher.Dispatch(c.UserContext(), req)
	if err != nil {
		domainErr := util.ToDomainError(err)
		if domainErr.HTTPStatus >= 500 {
			h.logger.Error("action failed",
				zap.String("action", envelope.Action),
				zap.Error(domainErr))
		}
		return writeError(c, domainErr)
	}

	h.applyDirectives(c, result.Directives)

	body := fiber.Map{"status": "success"}
	for key, value := range result.Body {
		body[key] = value
	}
	return c.JSON(body)
}

// writeError renders the failure. Business-rule failures stay on HTTP 200 so
// the client can display them; transport failures keep their status code.
// Internal detail is logged upstream, never echoed.
func writeError(c *fiber.Ctx, domainErr *util.DomainError) error {
	if !domainErr.Business() {
		c.Status(domainErr.HTTPStatus)
	}
	return c.JSON(fiber.Map{
		"status":  "error",
		"message": domainErr.Message,
	})
}

func (h *APIHandler) applyDirectives(c *fiber.Ctx, directives []dispatch.Directive) {
	for _, directive := range directives {
		if directive.Cookie == nil {
			continue
		}
		cookie := &fiber.Cookie{
			Name:     directive.Cookie.Name,
			Value:    directive.Cookie.Value,
			Expires:  directive.Cookie.Expires,
			Path:     "/",
			HTTPOnly: true,
			Secure:   h.authCfg.CookieSecure,
			SameSite: fiber.CookieSameSiteStrictMode,
		}
		if directive.Cookie.Clear {
			cookie.Value = ""
			cookie.Expires = time.Unix(0, 0)
		}
		c.Cookie(cookie)
	}
}

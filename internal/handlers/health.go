package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

const Version = "1.0.0"

// Probe reports whether a dependency is reachable.
type Probe func(ctx context.Context) error

type HealthHandler struct {
	probes   map[string]Probe
	required map[string]bool
}

// NewHealthHandler takes named probes. A failing probe listed in required
// turns the response into a 503; others only mark the service degraded.
func NewHealthHandler(probes map[string]Probe, required ...string) *HealthHandler {
	h := &HealthHandler{probes: probes, required: map[string]bool{}}
	for _, name := range required {
		h.required[name] = true
	}
	return h
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.SendString("Canteen backend is running")
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	code := fiber.StatusOK
	services := fiber.Map{}
	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			services[name] = "unavailable"
			if h.required[name] {
				status, code = "down", fiber.StatusServiceUnavailable
			} else if status == "ok" {
				status = "degraded"
			}
			continue
		}
		services[name] = "connected"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  Version,
		"services": services,
	})
}
